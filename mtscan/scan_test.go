package mtscan

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

func (f *fakeBinary) ImageBase() uint64         { return f.imageBase }
func (f *fakeBinary) RVAToVA(rva uint32) uint64 { return f.imageBase + uint64(rva) }
func (f *fakeBinary) VAToRVA(va uint64) uint32  { return uint32(va - f.imageBase) }
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

const elementTypeClass = uint32(Class) << elementTypeShift

// buildGraph lays out a root MethodTable (System.Object shape) inside
// .data, a pointer slot at the start of .data referencing it, and a
// second MethodTable B whose baseType field points straight at the root
// -- reachable only via the RVA-window crawl, not via a pointer slot.
func buildGraph(imageBase uint64) (*fakeBinary, uint64, uint64) {
	buf := make([]byte, 0x400)

	rootVA := imageBase + 0x200
	bVA := imageBase + 0x300

	// Pointer slot at the very start of .data.
	binary.LittleEndian.PutUint64(buf[0x100:], rootVA)

	// Root MethodTable at RVA 0x200.
	binary.LittleEndian.PutUint32(buf[0x200:], elementTypeClass)
	binary.LittleEndian.PutUint32(buf[0x204:], 0x18) // base_size
	binary.LittleEndian.PutUint64(buf[0x208:], 0)     // related_type
	binary.LittleEndian.PutUint16(buf[0x210:], 3)      // vtable_count
	binary.LittleEndian.PutUint16(buf[0x212:], 0)      // iface_count
	binary.LittleEndian.PutUint32(buf[0x214:], 0xAAAA5555)
	binary.LittleEndian.PutUint64(buf[0x218:], imageBase+0x10)
	binary.LittleEndian.PutUint64(buf[0x220:], imageBase+0x20)
	binary.LittleEndian.PutUint64(buf[0x228:], imageBase+0x30)

	// MethodTable B at RVA 0x300, base type pointing at the root.
	binary.LittleEndian.PutUint32(buf[0x300:], elementTypeClass)
	binary.LittleEndian.PutUint32(buf[0x304:], 0x20) // base_size
	binary.LittleEndian.PutUint64(buf[0x308:], rootVA)
	binary.LittleEndian.PutUint16(buf[0x310:], 0)
	binary.LittleEndian.PutUint16(buf[0x312:], 0)
	binary.LittleEndian.PutUint32(buf[0x314:], 0xBBBB6666)

	bin := &fakeBinary{
		imageBase: imageBase,
		data:      buf,
		sections: map[string]nativefmt.Section{
			".text": {Name: ".text", VirtualAddress: 0, VirtualSize: 0x100, FileOffsetStart: 0, FileOffsetEnd: 0x100},
			".data": {Name: ".data", VirtualAddress: 0x100, VirtualSize: 0x300, FileOffsetStart: 0x100, FileOffsetEnd: 0x400},
		},
	}

	return bin, rootVA, bVA
}

func TestFindObjectMT(t *testing.T) {
	bin, rootVA, _ := buildGraph(0x400000)

	mt, err := FindObjectMT(bin)
	if err != nil {
		t.Fatalf("FindObjectMT: %v", err)
	}
	if mt.View.VA() != rootVA {
		t.Fatalf("got root VA %#x, want %#x", mt.View.VA(), rootVA)
	}
	if mt.ElementType != Class || mt.BaseSize != 0x18 || len(mt.VTableAddresses) != 3 {
		t.Fatalf("unexpected root shape: %+v", mt)
	}
}

func TestScanMethodTablesLinksBaseType(t *testing.T) {
	bin, rootVA, bVA := buildGraph(0x500000)

	tables, err := ScanMethodTables(bin)
	if err != nil {
		t.Fatalf("ScanMethodTables: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 method tables, got %d", len(tables))
	}

	byVA := make(map[uint64]*MethodTable, len(tables))
	for _, mt := range tables {
		byVA[mt.View.VA()] = mt
	}

	root, ok := byVA[rootVA]
	if !ok {
		t.Fatal("root not present in scan result")
	}
	b, ok := byVA[bVA]
	if !ok {
		t.Fatal("derived table B not present in scan result")
	}
	if b.RelatedType != root {
		t.Fatalf("expected B.RelatedType to be root, got %+v", b.RelatedType)
	}
}
