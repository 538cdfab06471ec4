// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"
)

// buildSyntheticPE64 assembles a minimal, well-formed PE32+ image in memory:
// DOS header, NT header (AMD64, one data directory array), one section
// header named sectionName backed by sectionData. There is no fixture
// corpus shipped alongside this tree, so tests that need bytes to parse
// build their own rather than reaching for a binary on disk.
func buildSyntheticPE64(sectionName string, sectionData []byte) []byte {
	const fileAlignment = 0x200
	const sectionAlignment = 0x1000

	dos := ImageDOSHeader{
		Magic:                 ImageDOSSignature,
		AddressOfNewEXEHeader: 0x80,
	}

	fh := ImageFileHeader{
		Machine:              ImageFileMachineAMD64,
		NumberOfSections:     1,
		SizeOfOptionalHeader: uint16(binary.Size(ImageOptionalHeader64{})),
		Characteristics:      ImageFileHeaderCharacteristicsType(ImageFileExecutableImage | ImageFileLargeAddressAware),
	}

	rawSize := alignUp(uint32(len(sectionData)), fileAlignment)
	headersSize := alignUp(0x80+4+uint32(binary.Size(fh))+uint32(fh.SizeOfOptionalHeader)+uint32(binary.Size(ImageSectionHeader{})), fileAlignment)

	oh := ImageOptionalHeader64{
		Magic:               ImageNtOptionalHeader64Magic,
		AddressOfEntryPoint: sectionAlignment,
		BaseOfCode:          sectionAlignment,
		ImageBase:           0x140000000,
		SectionAlignment:    sectionAlignment,
		FileAlignment:       fileAlignment,
		SizeOfImage:         alignUp(sectionAlignment+uint32(len(sectionData)), sectionAlignment),
		SizeOfHeaders:       headersSize,
		NumberOfRvaAndSizes: 16,
	}

	var name [8]byte
	copy(name[:], sectionName)

	sh := ImageSectionHeader{
		Name:             name,
		VirtualSize:      uint32(len(sectionData)),
		VirtualAddress:   sectionAlignment,
		SizeOfRawData:    rawSize,
		PointerToRawData: headersSize,
		Characteristics:  ImageScnCntCode | ImageScnMemExecute | ImageScnMemRead,
	}

	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, &dos)
	buf.Write(make([]byte, int(dos.AddressOfNewEXEHeader)-buf.Len()))
	binary.Write(buf, binary.LittleEndian, uint32(ImageNTSignature))
	binary.Write(buf, binary.LittleEndian, &fh)
	binary.Write(buf, binary.LittleEndian, &oh)
	binary.Write(buf, binary.LittleEndian, &sh)

	out := buf.Bytes()
	out = append(out, make([]byte, int(headersSize)-len(out))...)
	out = append(out, sectionData...)
	out = append(out, make([]byte, int(rawSize)-len(sectionData))...)
	return out
}

func alignUp(v, align uint32) uint32 {
	if v%align == 0 {
		return v
	}
	return (v/align + 1) * align
}
