package nativefmt

import "testing"

// fakeBinary is a minimal in-memory Binary used to exercise View/RefTable
// without a real PE image: it treats VA and RVA as identical and serves
// bytes directly out of a flat buffer rooted at imageBase.
type fakeBinary struct {
	imageBase uint64
	data      []byte
}

func (f *fakeBinary) ImageBase() uint64 { return f.imageBase }

func (f *fakeBinary) RVAToVA(rva uint32) uint64 { return f.imageBase + uint64(rva) }

func (f *fakeBinary) VAToRVA(va uint64) uint32 { return uint32(va - f.imageBase) }

func (f *fakeBinary) Image(rva uint32) ([]byte, error) {
	if int(rva) > len(f.data) {
		return nil, ErrBadImage
	}
	return f.data[rva:], nil
}

func (f *fakeBinary) SectionByName(name string) (Section, bool) { return Section{}, false }

func (f *fakeBinary) SectionByRVA(rva uint32) (Section, bool) { return Section{}, false }

func TestRefTableResolvesSelfRelativeOffset(t *testing.T) {
	// Table has two int32 slots. Slot 0 resolves to slot 1's VA via a
	// self-relative offset of +4 (one slot width).
	data := make([]byte, 8)
	data[0], data[1], data[2], data[3] = 4, 0, 0, 0 // slot0: +4
	data[4], data[5], data[6], data[7] = 0, 0, 0, 0 // slot1: +0

	bin := &fakeBinary{imageBase: 0x1000, data: data}
	view := NewView(bin, 0x1000)
	table := NewRefTable(view, uint64(len(data)))

	va, ok := table.GetVAFromIndex(0)
	if !ok {
		t.Fatalf("GetVAFromIndex(0) failed")
	}
	if want := bin.imageBase + 4 + 4; va != want {
		t.Errorf("GetVAFromIndex(0) = %#x, want %#x", va, want)
	}

	va, ok = table.GetVAFromIndex(1)
	if !ok {
		t.Fatalf("GetVAFromIndex(1) failed")
	}
	if want := bin.imageBase + 4; va != want {
		t.Errorf("GetVAFromIndex(1) = %#x, want %#x", va, want)
	}
}

func TestRefTableOutOfRangeIndex(t *testing.T) {
	data := make([]byte, 4)
	bin := &fakeBinary{imageBase: 0x1000, data: data}
	view := NewView(bin, 0x1000)
	table := NewRefTable(view, uint64(len(data)))

	if _, ok := table.GetVAFromIndex(5); ok {
		t.Errorf("GetVAFromIndex(5) on a 1-slot table unexpectedly succeeded")
	}
}
