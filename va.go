// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"errors"

	"github.com/DaXcess/hytale-reversing/nativefmt"
)

// ErrInvalidRVA is returned when an RVA does not resolve to any mapped
// section.
var ErrInvalidRVA = errors.New("rva does not resolve to a mapped region")

// ImageBase returns the preferred load address recorded in the optional
// header, widened to 64 bits for PE32 images.
func (pe *File) ImageBase() uint64 {
	if pe.Is64 {
		return pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).ImageBase
	}
	return uint64(pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).ImageBase)
}

// RVAToVA converts a relative virtual address into an absolute virtual
// address under this image's preferred load address.
func (pe *File) RVAToVA(rva uint32) uint64 {
	return pe.ImageBase() + uint64(rva)
}

// VAToRVA converts an absolute virtual address, computed under this image's
// preferred load address, back into a relative virtual address.
func (pe *File) VAToRVA(va uint64) uint32 {
	return uint32(va - pe.ImageBase())
}

// Image returns a contiguous byte slice of the file's mapped data, starting
// at the file offset for rva and running to the end of the raw data of the
// section containing it. Returns ErrInvalidRVA if rva does not fall inside
// any mapped section.
func (pe *File) Image(rva uint32) ([]byte, error) {
	section := pe.getSectionByRva(rva)
	if section == nil {
		return nil, ErrInvalidRVA
	}

	start := pe.GetOffsetFromRva(rva)
	sectionStart := pe.adjustFileAlignment(section.Header.PointerToRawData)
	sectionEnd := sectionStart + section.Header.SizeOfRawData
	if start == ^uint32(0) || start > sectionEnd {
		return nil, ErrInvalidRVA
	}
	if sectionEnd > uint32(len(pe.data)) {
		sectionEnd = uint32(len(pe.data))
	}

	return pe.data[start:sectionEnd], nil
}

// toNativefmtSection narrows a parsed PE section down to the fields the
// nativefmt.Binary interface needs.
func (pe *File) toNativefmtSection(section *Section) nativefmt.Section {
	start := pe.adjustFileAlignment(section.Header.PointerToRawData)
	return nativefmt.Section{
		Name:            section.String(),
		VirtualAddress:  pe.adjustSectionAlignment(section.Header.VirtualAddress),
		VirtualSize:     section.Header.VirtualSize,
		FileOffsetStart: start,
		FileOffsetEnd:   start + section.Header.SizeOfRawData,
	}
}

// SectionByName returns the narrow view of the named section, or ok=false if
// no section with that name was parsed.
func (pe *File) SectionByName(name string) (nativefmt.Section, bool) {
	for i := range pe.Sections {
		if pe.Sections[i].String() == name {
			return pe.toNativefmtSection(&pe.Sections[i]), true
		}
	}
	return nativefmt.Section{}, false
}

// SectionByRVA returns the narrow view of the section containing rva, or
// ok=false if rva does not fall inside any parsed section.
func (pe *File) SectionByRVA(rva uint32) (nativefmt.Section, bool) {
	section := pe.getSectionByRva(rva)
	if section == nil {
		return nativefmt.Section{}, false
	}
	return pe.toNativefmtSection(section), true
}
