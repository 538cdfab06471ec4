// Package nativefmt implements the low-level encodings shared by every
// embedded reflection structure in a NativeAOT image: the image-relative
// cursor, the variable-length integer codec, the native hashtable format,
// and the external references table.
package nativefmt

import (
	"encoding/binary"
	"errors"
)

// ErrBadImage reports a malformed on-disk structure: a read past the end of
// the image, an invalid variable-length marker, or an out-of-range offset.
var ErrBadImage = errors.New("nativefmt: image is corrupt or malformed")

// Section describes the narrow slice of a PE section header the rest of
// this system needs: its name, its virtual extent, and its file extent.
type Section struct {
	Name            string
	VirtualAddress  uint32
	VirtualSize     uint32
	FileOffsetStart uint32
	FileOffsetEnd   uint32
}

// Binary is the PE abstraction the native-format, metadata, RTR, and MT
// scanner layers consume. Nothing else is required from a PE loader.
type Binary interface {
	ImageBase() uint64
	RVAToVA(rva uint32) uint64
	VAToRVA(va uint64) uint32
	Image(rva uint32) ([]byte, error)
	SectionByName(name string) (Section, bool)
	SectionByRVA(rva uint32) (Section, bool)
}

// View is a cursor over a Binary's image memory, identified by a base VA
// plus a relative offset. Every byte access is bounds-checked against the
// containing section; a forked view at a different offset shares the same
// underlying Binary.
type View struct {
	Bin    Binary
	base   uint64
	offset uint64
}

// NewView creates a view rooted at va.
func NewView(bin Binary, va uint64) View {
	return View{Bin: bin, base: va}
}

// VA returns the view's current virtual address.
func (v View) VA() uint64 {
	return v.base + v.offset
}

// WithOffset returns a new view at v.VA()+offset.
func (v View) WithOffset(offset uint64) View {
	return NewView(v.Bin, v.base+offset)
}

// Bytes returns the contiguous slice of image data starting at the view's
// current VA and running to the end of its containing section.
func (v View) Bytes() ([]byte, error) {
	rva := v.Bin.VAToRVA(v.VA())
	return v.Bin.Image(rva)
}

// TakeU8 reads a byte at *v and advances *v past it.
func (v *View) TakeU8() (uint8, error) {
	b, err := v.Bytes()
	if err != nil || len(b) < 1 {
		return 0, ErrBadImage
	}
	*v = v.WithOffset(1)
	return b[0], nil
}

// TakeU16 reads a little-endian uint16 at *v and advances *v past it.
func (v *View) TakeU16() (uint16, error) {
	b, err := v.Bytes()
	if err != nil || len(b) < 2 {
		return 0, ErrBadImage
	}
	*v = v.WithOffset(2)
	return binary.LittleEndian.Uint16(b), nil
}

// TakeU32 reads a little-endian uint32 at *v and advances *v past it.
func (v *View) TakeU32() (uint32, error) {
	b, err := v.Bytes()
	if err != nil || len(b) < 4 {
		return 0, ErrBadImage
	}
	*v = v.WithOffset(4)
	return binary.LittleEndian.Uint32(b), nil
}

// TakeU64 reads a little-endian uint64 at *v and advances *v past it.
func (v *View) TakeU64() (uint64, error) {
	b, err := v.Bytes()
	if err != nil || len(b) < 8 {
		return 0, ErrBadImage
	}
	*v = v.WithOffset(8)
	return binary.LittleEndian.Uint64(b), nil
}
