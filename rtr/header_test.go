package rtr

import (
	"encoding/binary"
	"testing"

	"github.com/DaXcess/hytale-reversing/nativefmt"
)

type fakeBinary struct {
	imageBase uint64
	data      []byte
	sections  map[string]nativefmt.Section
}

func (f *fakeBinary) ImageBase() uint64          { return f.imageBase }
func (f *fakeBinary) RVAToVA(rva uint32) uint64  { return f.imageBase + uint64(rva) }
func (f *fakeBinary) VAToRVA(va uint64) uint32   { return uint32(va - f.imageBase) }
func (f *fakeBinary) Image(rva uint32) ([]byte, error) {
	if int(rva) > len(f.data) {
		return nil, nativefmt.ErrBadImage
	}
	return f.data[rva:], nil
}
func (f *fakeBinary) SectionByName(name string) (nativefmt.Section, bool) {
	s, ok := f.sections[name]
	return s, ok
}
func (f *fakeBinary) SectionByRVA(rva uint32) (nativefmt.Section, bool) {
	for _, s := range f.sections {
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+s.VirtualSize {
			return s, true
		}
	}
	return nativefmt.Section{}, false
}

func putU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func putU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func putU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// buildImage lays out a header with two sections: an EagerCctor entry (no
// payload consulted) and a CommonFixupsTable entry pointing at a two-slot
// ref table placed immediately after the header.
func buildImage(imageBase uint64) *fakeBinary {
	var buf []byte
	buf = putU32(buf, Signature)
	buf = putU16(buf, 5)  // major
	buf = putU16(buf, 2)  // minor
	buf = putU32(buf, 0)  // flags
	buf = putU16(buf, 2)  // number_of_sections
	buf = append(buf, 24) // entry_size
	buf = append(buf, 0)  // entry_type

	headerLen := uint64(len(buf)) + 2*24
	refTableVA := imageBase + headerLen

	buf = putU32(buf, uint32(EagerCctor))
	buf = putU32(buf, 0)
	buf = putU64(buf, refTableVA)
	buf = putU64(buf, refTableVA)

	buf = putU32(buf, uint32(sectionTypeForBlob(CommonFixupsTable)))
	buf = putU32(buf, 0)
	buf = putU64(buf, refTableVA)
	buf = putU64(buf, refTableVA+8)

	// Two self-relative ref-table slots: slot 0 -> +4 (points at slot 1).
	buf = putU32(buf, 4)
	buf = putU32(buf, 0)

	return &fakeBinary{
		imageBase: imageBase,
		data:      buf,
		sections: map[string]nativefmt.Section{
			".rdata": {
				Name:            ".rdata",
				VirtualAddress:  0,
				VirtualSize:     uint32(len(buf)),
				FileOffsetStart: 0,
				FileOffsetEnd:   uint32(len(buf)),
			},
		},
	}
}

func TestParseAtVA(t *testing.T) {
	bin := buildImage(0x1000)

	header, err := ParseAtVA(bin, 0x1000)
	if err != nil {
		t.Fatalf("ParseAtVA: %v", err)
	}
	if header.MajorVersion != 5 || header.MinorVersion != 2 {
		t.Fatalf("unexpected version: %d.%d", header.MajorVersion, header.MinorVersion)
	}
	if len(header.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(header.Sections))
	}

	if _, ok := header.Section(EagerCctor); !ok {
		t.Fatal("EagerCctor section not found")
	}

	sect, ok := header.Blob(CommonFixupsTable)
	if !ok {
		t.Fatal("CommonFixupsTable blob not found")
	}
	if kind, ok := sect.SectionType.BlobKind(); !ok || kind != CommonFixupsTable {
		t.Fatalf("expected BlobKind CommonFixupsTable, got %v, %v", kind, ok)
	}
}

func TestCommonFixupsTableResolves(t *testing.T) {
	bin := buildImage(0x2000)

	header, err := ParseAtVA(bin, 0x2000)
	if err != nil {
		t.Fatalf("ParseAtVA: %v", err)
	}

	table, err := header.CommonFixupsTable()
	if err != nil {
		t.Fatalf("CommonFixupsTable: %v", err)
	}

	va, ok := table.GetVAFromIndex(0)
	if !ok {
		t.Fatal("expected index 0 to resolve")
	}

	sect, _ := header.Blob(CommonFixupsTable)
	want := sect.Start.VA() + 4
	if va != want {
		t.Fatalf("got VA %#x, want %#x", va, want)
	}
}

func TestScanAndParseFindsHeader(t *testing.T) {
	bin := buildImage(0x3000)

	header, err := ScanAndParse(bin)
	if err != nil {
		t.Fatalf("ScanAndParse: %v", err)
	}
	if header.MajorVersion != 5 {
		t.Fatalf("unexpected major version: %d", header.MajorVersion)
	}
}

func TestScanAndParseFailsWithoutSignature(t *testing.T) {
	bin := &fakeBinary{
		imageBase: 0x4000,
		data:      make([]byte, 64),
		sections: map[string]nativefmt.Section{
			".rdata": {Name: ".rdata", VirtualAddress: 0, VirtualSize: 64, FileOffsetStart: 0, FileOffsetEnd: 64},
		},
	}

	if _, err := ScanAndParse(bin); err != ErrNoHeader {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}
