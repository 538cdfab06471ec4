// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"sort"
	"testing"
)

func TestParseSectionHeaders(t *testing.T) {
	sectionData := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	data := buildSyntheticPE64(".text", sectionData)

	file, err := NewBytes(data, &Options{})
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	sections := file.Sections
	if len(sections) != 1 {
		t.Fatalf("sections count assertion failed, got %v, want 1", len(sections))
	}

	section := sections[0]
	if name := section.String(); name != ".text" {
		t.Errorf("section name assertion failed, got %v, want .text", name)
	}

	prettySectionFlags := section.PrettySectionFlags()
	sort.Strings(prettySectionFlags)
	want := []string{"Contains Code", "Executable", "Readable"}
	sort.Strings(want)
	if len(prettySectionFlags) != len(want) {
		t.Errorf("pretty section flags assertion failed, got %v, want %v", prettySectionFlags, want)
	}

	entropy := section.CalculateEntropy(file)
	if entropy <= 0 {
		t.Errorf("entropy calculation failed, got %v, want > 0", entropy)
	}
}
