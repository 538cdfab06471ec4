// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"testing"
)

func parsedSyntheticPE(t *testing.T, sectionName string, characteristics ImageFileHeaderCharacteristicsType, subsystem ImageOptionalHeaderSubsystemType) *File {
	t.Helper()
	data := buildSyntheticPE64(sectionName, []byte{0x90})

	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	file.NtHeader.FileHeader.Characteristics = characteristics
	oh := file.NtHeader.OptionalHeader.(ImageOptionalHeader64)
	oh.Subsystem = subsystem
	file.NtHeader.OptionalHeader = oh

	return file
}

func TestIsEXE(t *testing.T) {
	file := parsedSyntheticPE(t, ".text", ImageFileExecutableImage, ImageSubsystemWindowsGUI)
	if !file.IsEXE() {
		t.Errorf("IsEXE() = false, want true")
	}
}

func TestIsDLL(t *testing.T) {
	file := parsedSyntheticPE(t, ".text", ImageFileExecutableImage|ImageFileDLL, ImageSubsystemWindowsGUI)
	if !file.IsDLL() {
		t.Errorf("IsDLL() = false, want true")
	}
}

func TestIsDriver(t *testing.T) {
	file := parsedSyntheticPE(t, "PAGE", ImageFileExecutableImage, ImageSubsystemNative)
	if !file.IsDriver() {
		t.Errorf("IsDriver() = false, want true")
	}

	notDriver := parsedSyntheticPE(t, ".text", ImageFileExecutableImage, ImageSubsystemWindowsGUI)
	if notDriver.IsDriver() {
		t.Errorf("IsDriver() = true, want false")
	}
}
