// Package rtr parses the ReadyToRun header embedded in a NativeAOT image:
// the root directory of typed sections whose payloads are reflection-map
// blobs, native hashtables, the embedded metadata reader, and the common
// fixups table.
package rtr

import (
	"encoding/binary"
	"errors"

	"github.com/DaXcess/hytale-reversing/metadata"
	"github.com/DaXcess/hytale-reversing/nativefmt"
)

// Signature is the 4-byte little-endian value marking the start of a
// ReadyToRun header: "RTR\0".
const Signature uint32 = 0x00525452

// candidateSections lists, in scan order, the data-bearing PE sections a
// ReadyToRun header may live in.
var candidateSections = []string{".rdata", ".pdata", ".data"}

// ErrNoHeader reports that no valid ReadyToRun header could be located or
// parsed.
var ErrNoHeader = errors.New("rtr: no ReadyToRun header found")

// ErrMissingBlob reports that a typed accessor's underlying section is not
// present in the header.
var ErrMissingBlob = errors.New("rtr: required blob not present")

// ReadyToRunHeader is the parsed root directory: version/flags fields plus
// every section entry that followed it.
type ReadyToRunHeader struct {
	MajorVersion     uint16
	MinorVersion     uint16
	Flags            uint32
	NumberOfSections uint16
	EntrySize        uint8
	EntryType        uint8
	Sections         []ReadyToRunSection
}

// ReadyToRunSection is one entry in the header's section table: a typed
// tag plus the [Start, End) view spanning the section's payload.
type ReadyToRunSection struct {
	View        nativefmt.View
	SectionType SectionType
	Flags       uint32
	Start       nativefmt.View
	End         nativefmt.View
}

// ParseAtVA parses a ReadyToRun header known to live at va.
func ParseAtVA(bin nativefmt.Binary, va uint64) (*ReadyToRunHeader, error) {
	view := nativefmt.NewView(bin, va)
	return parseHeader(view)
}

// ScanAndParse walks the candidate data sections (.rdata, .pdata, .data,
// in that order) in 8-byte strides looking for the ReadyToRun signature,
// and attempts a full parse at the first VA that carries it. The first
// section offset that parses successfully wins; ScanAndParse fails if no
// candidate section yields one.
func ScanAndParse(bin nativefmt.Binary) (*ReadyToRunHeader, error) {
	for _, name := range candidateSections {
		sect, ok := bin.SectionByName(name)
		if !ok {
			continue
		}

		for off := sect.FileOffsetStart; off+4 <= sect.FileOffsetEnd; off += 8 {
			rva := sect.VirtualAddress + (off - sect.FileOffsetStart)

			data, err := bin.Image(rva)
			if err != nil || len(data) < 4 {
				continue
			}
			if binary.LittleEndian.Uint32(data) != Signature {
				continue
			}

			header, err := ParseAtVA(bin, bin.RVAToVA(rva))
			if err == nil {
				return header, nil
			}
		}
	}

	return nil, ErrNoHeader
}

func parseHeader(view nativefmt.View) (*ReadyToRunHeader, error) {
	signature, err := view.TakeU32()
	if err != nil || signature != Signature {
		return nil, ErrNoHeader
	}

	major, err := view.TakeU16()
	if err != nil {
		return nil, ErrNoHeader
	}
	minor, err := view.TakeU16()
	if err != nil {
		return nil, ErrNoHeader
	}
	flags, err := view.TakeU32()
	if err != nil {
		return nil, ErrNoHeader
	}
	numSections, err := view.TakeU16()
	if err != nil {
		return nil, ErrNoHeader
	}
	entrySize, err := view.TakeU8()
	if err != nil {
		return nil, ErrNoHeader
	}
	entryType, err := view.TakeU8()
	if err != nil {
		return nil, ErrNoHeader
	}

	if int16(numSections) < 0 && numSections >= 1000 {
		return nil, ErrNoHeader
	}

	sections := make([]ReadyToRunSection, 0, numSections)
	for i := 0; i < int(numSections); i++ {
		sect, err := parseSection(&view)
		if err != nil {
			return nil, err
		}
		sections = append(sections, sect)
	}

	return &ReadyToRunHeader{
		MajorVersion:     major,
		MinorVersion:     minor,
		Flags:            flags,
		NumberOfSections: numSections,
		EntrySize:        entrySize,
		EntryType:        entryType,
		Sections:         sections,
	}, nil
}

func parseSection(view *nativefmt.View) (ReadyToRunSection, error) {
	sectView := *view

	tag, err := view.TakeU32()
	if err != nil {
		return ReadyToRunSection{}, ErrNoHeader
	}
	flags, err := view.TakeU32()
	if err != nil {
		return ReadyToRunSection{}, ErrNoHeader
	}
	start, err := view.TakeU64()
	if err != nil {
		return ReadyToRunSection{}, ErrNoHeader
	}
	end, err := view.TakeU64()
	if err != nil {
		return ReadyToRunSection{}, ErrNoHeader
	}

	return ReadyToRunSection{
		View:        sectView,
		SectionType: SectionType(tag),
		Flags:       flags,
		Start:       nativefmt.NewView(view.Bin, start),
		End:         nativefmt.NewView(view.Bin, end),
	}, nil
}

// Section returns the first section entry matching kind.
func (h *ReadyToRunHeader) Section(kind SectionType) (ReadyToRunSection, bool) {
	for _, s := range h.Sections {
		if s.SectionType == kind {
			return s, true
		}
	}
	return ReadyToRunSection{}, false
}

// Blob returns the section entry reserved for the given reflection-map
// blob kind.
func (h *ReadyToRunHeader) Blob(kind ReflectionMapBlob) (ReadyToRunSection, bool) {
	return h.Section(sectionTypeForBlob(kind))
}

// BlobHashtable builds a native hashtable over the given blob's payload.
func (h *ReadyToRunHeader) BlobHashtable(kind ReflectionMapBlob) (*nativefmt.Hashtable, error) {
	sect, ok := h.Blob(kind)
	if !ok {
		return nil, ErrMissingBlob
	}

	data, err := sect.Start.Bytes()
	if err != nil {
		return nil, err
	}
	reader, err := nativefmt.NewReader(data)
	if err != nil {
		return nil, err
	}

	return nativefmt.NewHashtable(nativefmt.NewParser(reader, 0))
}

// Metadata builds a metadata reader over the embedded-metadata blob.
func (h *ReadyToRunHeader) Metadata() (*metadata.Reader, error) {
	sect, ok := h.Blob(EmbeddedMetadata)
	if !ok {
		return nil, ErrMissingBlob
	}

	data, err := sect.Start.Bytes()
	if err != nil {
		return nil, err
	}
	return metadata.NewReader(data)
}

// CommonFixupsTable builds an external-references table over the common
// fixups blob.
func (h *ReadyToRunHeader) CommonFixupsTable() (nativefmt.RefTable, error) {
	sect, ok := h.Blob(CommonFixupsTable)
	if !ok {
		return nativefmt.RefTable{}, ErrMissingBlob
	}

	size := sect.End.VA() - sect.Start.VA()
	return nativefmt.NewRefTable(sect.Start, size), nil
}
