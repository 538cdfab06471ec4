package nativefmt

// Hashtable is the bucketed, sorted-entry lookup table format layered on
// top of a Parser. Buckets are a flat array of (start, end) offset pairs
// into a shared entry region; entries inside a bucket are sorted ascending
// by the low byte of their hashcode, which lets lookups short-circuit.
type Hashtable struct {
	reader         *Reader
	baseOffset     int
	bucketMask     uint32
	entryIndexSize uint8
}

// NewHashtable consumes the one-byte header at parser's current offset:
// the low 2 bits give entryIndexSize (0, 1, or 2, selecting 1/2/4-byte
// bucket offsets) and the upper 6 bits give log2(bucket count), which must
// not exceed 31.
func NewHashtable(parser *Parser) (*Hashtable, error) {
	header, err := parser.GetU8()
	if err != nil {
		return nil, err
	}
	baseOffset := parser.Offset

	shift := header >> 2
	if shift > 31 {
		return nil, ErrBadImage
	}

	entryIndexSize := header & 3
	if entryIndexSize > 2 {
		return nil, ErrBadImage
	}

	return &Hashtable{
		reader:         parser.Reader,
		baseOffset:     baseOffset,
		bucketMask:     (uint32(1) << shift) - 1,
		entryIndexSize: entryIndexSize,
	}, nil
}

// parserForBucket returns a parser positioned at the start of bucket, and
// reports the absolute end offset of that bucket's entry run via endOffset.
func (h *Hashtable) parserForBucket(bucket uint32) (parser *Parser, endOffset int, err error) {
	var start, end uint32

	switch h.entryIndexSize {
	case 0:
		off := h.baseOffset + int(bucket)
		s, err := h.reader.ReadU8(off)
		if err != nil {
			return nil, 0, err
		}
		e, err := h.reader.ReadU8(off + 1)
		if err != nil {
			return nil, 0, err
		}
		start, end = uint32(s), uint32(e)
	case 1:
		off := h.baseOffset + 2*int(bucket)
		s, err := h.reader.ReadU16(off)
		if err != nil {
			return nil, 0, err
		}
		e, err := h.reader.ReadU16(off + 2)
		if err != nil {
			return nil, 0, err
		}
		start, end = uint32(s), uint32(e)
	default:
		off := h.baseOffset + 4*int(bucket)
		s, err := h.reader.ReadU32(off)
		if err != nil {
			return nil, 0, err
		}
		e, err := h.reader.ReadU32(off + 4)
		if err != nil {
			return nil, 0, err
		}
		start, end = s, e
	}

	return NewParser(h.reader, h.baseOffset+int(start)), h.baseOffset + int(end), nil
}

// Lookup returns an iterator over every entry whose low hash byte matches
// hashcode's low byte, within the bucket selected by hashcode's upper bits.
func (h *Hashtable) Lookup(hashcode int32) (*HashtableIterator, error) {
	parser, end, err := h.parserForBucket((uint32(hashcode) >> 8) & h.bucketMask)
	if err != nil {
		return nil, err
	}
	return &HashtableIterator{parser: parser, endOffset: end, lowHashcode: byte(hashcode)}, nil
}

// EnumerateAll returns an iterator over every entry in the table, in
// bucket-major then file order.
func (h *Hashtable) EnumerateAll() (*HashtableAllEntries, error) {
	parser, end, err := h.parserForBucket(0)
	if err != nil {
		return nil, err
	}
	return &HashtableAllEntries{table: h, parser: parser, endOffset: end}, nil
}

// HashtableIterator walks one bucket's sorted entries, stopping as soon as
// an entry's low hash byte exceeds the target (the sorted short-circuit).
type HashtableIterator struct {
	parser      *Parser
	endOffset   int
	lowHashcode byte
}

// Next returns the payload parser for the next matching entry, or ok=false
// when the bucket is exhausted or the short-circuit has triggered.
func (it *HashtableIterator) Next() (payload *Parser, ok bool) {
	for it.parser.Offset < it.endOffset {
		low, err := it.parser.GetU8()
		if err != nil {
			return nil, false
		}

		if low == it.lowHashcode {
			p, err := it.parser.GetParserFromRelOffset()
			if err != nil {
				return nil, false
			}
			return p, true
		}

		if low > it.lowHashcode {
			return nil, false
		}

		if err := it.parser.SkipInteger(); err != nil {
			return nil, false
		}
	}
	return nil, false
}

// HashtableAllEntries walks every bucket in order, yielding every entry
// regardless of its low hash byte.
type HashtableAllEntries struct {
	table      *Hashtable
	parser     *Parser
	currentBkt uint32
	endOffset  int
}

// Next returns the payload parser for the next entry in the table, or
// ok=false once every bucket has been exhausted.
func (it *HashtableAllEntries) Next() (payload *Parser, ok bool) {
	for {
		for it.parser.Offset < it.endOffset {
			if _, err := it.parser.GetU8(); err != nil {
				return nil, false
			}
			p, err := it.parser.GetParserFromRelOffset()
			if err != nil {
				return nil, false
			}
			return p, true
		}

		if it.currentBkt >= it.table.bucketMask {
			return nil, false
		}

		it.currentBkt++
		parser, end, err := it.table.parserForBucket(it.currentBkt)
		if err != nil {
			return nil, false
		}
		it.parser, it.endOffset = parser, end
	}
}
