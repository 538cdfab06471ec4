// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"testing"
)

func TestParse(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90, 0x90, 0xc3})

	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}

	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() got %v, want nil", err)
	}

	if !file.Is64 {
		t.Errorf("Parse() did not detect a PE32+ image")
	}
	if len(file.Sections) != 1 {
		t.Errorf("Parse() got %d sections, want 1", len(file.Sections))
	}
}

func TestNewBytes(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90})

	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Errorf("Parse() got %v, want nil", err)
	}
}

func TestChecksum(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90, 0x90, 0x90, 0x90})

	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() got %v, want nil", err)
	}

	// A freshly built image has a zero CheckSum field in its optional
	// header; Checksum() recomputes the real one, which must differ.
	oh := file.NtHeader.OptionalHeader.(ImageOptionalHeader64)
	if file.Checksum() == oh.CheckSum {
		t.Errorf("Checksum() returned the same value as the unset header field")
	}
}
