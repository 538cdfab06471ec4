package pe

import (
	"testing"

	"github.com/DaXcess/hytale-reversing/nativefmt"
)

// Compile-time assertion that *File satisfies the PE abstraction the
// nativefmt, metadata, rtr, mtscan, and reconstruct layers consume.
var _ nativefmt.Binary = (*File)(nil)

func TestImageBaseAndRVAConversions(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90, 0x90, 0xc3})
	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	base := file.ImageBase()
	if base == 0 {
		t.Fatalf("ImageBase() = 0, want nonzero")
	}

	section := file.Sections[0]
	rva := section.Header.VirtualAddress

	va := file.RVAToVA(rva)
	if va != base+uint64(rva) {
		t.Errorf("RVAToVA(%#x) = %#x, want %#x", rva, va, base+uint64(rva))
	}

	if got := file.VAToRVA(va); got != rva {
		t.Errorf("VAToRVA(%#x) = %#x, want %#x", va, got, rva)
	}
}

func TestImage(t *testing.T) {
	sectionData := []byte{0xde, 0xad, 0xbe, 0xef}
	data := buildSyntheticPE64(".text", sectionData)
	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	rva := file.Sections[0].Header.VirtualAddress
	buf, err := file.Image(rva)
	if err != nil {
		t.Fatalf("Image() failed, reason: %v", err)
	}
	if len(buf) < len(sectionData) {
		t.Fatalf("Image() returned %d bytes, want at least %d", len(buf), len(sectionData))
	}
	for i, b := range sectionData {
		if buf[i] != b {
			t.Errorf("Image()[%d] = %#x, want %#x", i, buf[i], b)
		}
	}
}

func TestImageInvalidRVA(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90})
	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	if _, err := file.Image(0x7fffffff); err == nil {
		t.Errorf("Image() with out-of-range rva, want error")
	}
}

func TestSectionByName(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90, 0x90, 0xc3})
	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	section, ok := file.SectionByName(".text")
	if !ok {
		t.Fatalf("SectionByName(.text) not found")
	}
	if section.VirtualAddress != file.Sections[0].Header.VirtualAddress {
		t.Errorf("SectionByName(.text).VirtualAddress = %#x, want %#x",
			section.VirtualAddress, file.Sections[0].Header.VirtualAddress)
	}

	if _, ok := file.SectionByName(".nope"); ok {
		t.Errorf("SectionByName(.nope) unexpectedly found a section")
	}
}

func TestSectionByRVA(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90, 0x90, 0xc3})
	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	rva := file.Sections[0].Header.VirtualAddress
	section, ok := file.SectionByRVA(rva)
	if !ok {
		t.Fatalf("SectionByRVA(%#x) not found", rva)
	}
	if section.Name != ".text" {
		t.Errorf("SectionByRVA(%#x).Name = %q, want .text", rva, section.Name)
	}

	if _, ok := file.SectionByRVA(0x7fffffff); ok {
		t.Errorf("SectionByRVA(0x7fffffff) unexpectedly found a section")
	}
}
