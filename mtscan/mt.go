// Package mtscan locates NativeAOT MethodTable structures inside a PE
// image: parsing a single table at a known address, finding the
// System.Object root table by structural shape, and crawling the
// reachable graph of tables from that root.
package mtscan

import (
	"errors"
	"fmt"

	"github.com/DaXcess/hytale-reversing/nativefmt"
)

// ErrBadImage reports a malformed or out-of-range MethodTable encoding.
var ErrBadImage = errors.New("mtscan: image is corrupt or malformed")

// ErrRootNotFound reports that no candidate in any data section satisfied
// the root (System.Object) MethodTable shape.
var ErrRootNotFound = errors.New("mtscan: could not locate root MethodTable")

const (
	elementTypeMask  uint32 = 0x7C000000
	elementTypeShift        = 26
)

// ElementType classifies the kind of value a MethodTable describes.
type ElementType uint32

const (
	Unknown         ElementType = 0x00
	Void            ElementType = 0x01
	Boolean         ElementType = 0x02
	Char            ElementType = 0x03
	SByte           ElementType = 0x04
	Byte            ElementType = 0x05
	Int16           ElementType = 0x06
	UInt16          ElementType = 0x07
	Int32           ElementType = 0x08
	UInt32          ElementType = 0x09
	Int64           ElementType = 0x0A
	UInt64          ElementType = 0x0B
	IntPtr          ElementType = 0x0C
	UIntPtr         ElementType = 0x0D
	Single          ElementType = 0x0E
	Double          ElementType = 0x0F
	ValueType       ElementType = 0x10
	Nullable        ElementType = 0x12
	Class           ElementType = 0x14
	Interface       ElementType = 0x15
	SystemArray     ElementType = 0x16
	Array           ElementType = 0x17
	SzArray         ElementType = 0x18
	ByRef           ElementType = 0x19
	Pointer         ElementType = 0x1A
	FunctionPointer ElementType = 0x1B
)

var elementTypeNames = map[ElementType]string{
	Unknown: "Unknown", Void: "Void", Boolean: "Boolean", Char: "Char",
	SByte: "SByte", Byte: "Byte", Int16: "Int16", UInt16: "UInt16",
	Int32: "Int32", UInt32: "UInt32", Int64: "Int64", UInt64: "UInt64",
	IntPtr: "IntPtr", UIntPtr: "UIntPtr", Single: "Single", Double: "Double",
	ValueType: "ValueType", Nullable: "Nullable", Class: "Class",
	Interface: "Interface", SystemArray: "SystemArray", Array: "Array",
	SzArray: "SzArray", ByRef: "ByRef", Pointer: "Pointer",
	FunctionPointer: "FunctionPointer",
}

// String renders the element type's name, or "Unknown(n)" outside the
// enumerated set.
func (e ElementType) String() string {
	if name, ok := elementTypeNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%#x)", uint32(e))
}

// MethodTable is a parsed NativeAOT EEType: fixed header fields plus the
// vtable and interface slot lists that followed it on the wire.
type MethodTable struct {
	View               nativefmt.View
	Flags              uint32
	BaseSize           uint32
	RelatedTypeAddress uint64
	Hashcode           uint32
	ElementType        ElementType
	VTableAddresses    []uint64
	IfaceAddresses     []uint64

	// RelatedType is populated by the crawl once the base type is known.
	RelatedType *MethodTable
	// Interfaces collects the MTs this table (when acting as a base type)
	// was found to implement, attached lazily as the crawl discovers them.
	Interfaces []*MethodTable
}

// Parse reads a MethodTable at view's current position, validating the
// same shape constraints the runtime itself guarantees: bounded vtable and
// interface counts, and a base size that is either zero (for an interface)
// or at least 0x10.
func Parse(view nativefmt.View) (*MethodTable, error) {
	tableView := view

	flags, err := view.TakeU32()
	if err != nil {
		return nil, ErrBadImage
	}
	baseSize, err := view.TakeU32()
	if err != nil {
		return nil, ErrBadImage
	}
	relatedType, err := view.TakeU64()
	if err != nil {
		return nil, ErrBadImage
	}
	vtableCount, err := view.TakeU16()
	if err != nil {
		return nil, ErrBadImage
	}
	ifaceCount, err := view.TakeU16()
	if err != nil {
		return nil, ErrBadImage
	}
	hashcode, err := view.TakeU32()
	if err != nil {
		return nil, ErrBadImage
	}

	if int16(vtableCount) < 0 || vtableCount >= 1000 {
		return nil, ErrBadImage
	}
	if int16(ifaceCount) < 0 || ifaceCount >= 1000 {
		return nil, ErrBadImage
	}

	vtables := make([]uint64, 0, vtableCount)
	for i := uint16(0); i < vtableCount; i++ {
		v, err := view.TakeU64()
		if err != nil {
			return nil, ErrBadImage
		}
		vtables = append(vtables, v)
	}

	ifaces := make([]uint64, 0, ifaceCount)
	for i := uint16(0); i < ifaceCount; i++ {
		v, err := view.TakeU64()
		if err != nil {
			return nil, ErrBadImage
		}
		ifaces = append(ifaces, v)
	}

	elemType := ElementType((flags & elementTypeMask) >> elementTypeShift)
	if _, ok := elementTypeNames[elemType]; !ok {
		elemType = Unknown
	}

	if elemType == Interface {
		if baseSize != 0 {
			return nil, ErrBadImage
		}
		if relatedType != 0 {
			return nil, ErrBadImage
		}
	} else if baseSize < 0x10 {
		return nil, ErrBadImage
	}

	return &MethodTable{
		View:               tableView,
		Flags:              flags,
		BaseSize:           baseSize,
		RelatedTypeAddress: relatedType,
		Hashcode:           hashcode,
		ElementType:        elemType,
		VTableAddresses:    vtables,
		IfaceAddresses:     ifaces,
	}, nil
}
