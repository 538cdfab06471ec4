package nativefmt

// Parser is a single-threaded advancing cursor paired with a Reader: the
// stateful counterpart to Reader's stateless byte-slice access.
type Parser struct {
	Reader *Reader
	Offset int
}

// NewParser returns a parser positioned at offset within reader.
func NewParser(reader *Reader, offset int) *Parser {
	return &Parser{Reader: reader, Offset: offset}
}

// GetU8 reads a raw byte and advances the cursor by one.
func (p *Parser) GetU8() (byte, error) {
	v, err := p.Reader.ReadU8(p.Offset)
	if err != nil {
		return 0, err
	}
	p.Offset++
	return v, nil
}

// GetUnsigned decodes a variable-length unsigned integer at the cursor.
func (p *Parser) GetUnsigned() (uint32, error) {
	return p.Reader.DecodeUnsigned(&p.Offset)
}

// GetUnsignedLong decodes a variable-length unsigned 64-bit integer at the
// cursor.
func (p *Parser) GetUnsignedLong() (uint64, error) {
	return p.Reader.DecodeUnsignedLong(&p.Offset)
}

// GetSigned decodes a variable-length signed integer at the cursor.
func (p *Parser) GetSigned() (int32, error) {
	return p.Reader.DecodeSigned(&p.Offset)
}

// GetString decodes a length-prefixed UTF-8 string at the cursor.
func (p *Parser) GetString() (string, error) {
	return p.Reader.DecodeString(&p.Offset)
}

// GetRelativeOffset decodes a signed delta at the cursor and adds it to the
// cursor's position *before* the decode, yielding an absolute offset.
func (p *Parser) GetRelativeOffset() (uint32, error) {
	pos := p.Offset
	delta, err := p.Reader.DecodeSigned(&p.Offset)
	if err != nil {
		return 0, err
	}
	return uint32(pos) + uint32(delta), nil
}

// SkipInteger advances the cursor past one variable-length integer without
// decoding its value.
func (p *Parser) SkipInteger() error {
	return p.Reader.SkipInteger(&p.Offset)
}

// GetParserFromRelOffset reads a self-relative offset at the cursor and
// returns a new parser positioned there, sharing the same Reader.
func (p *Parser) GetParserFromRelOffset() (*Parser, error) {
	off, err := p.GetRelativeOffset()
	if err != nil {
		return nil, err
	}
	return NewParser(p.Reader, int(off)), nil
}

// GetSequenceCount decodes the element count prefixing a collection. It is
// an alias of GetUnsigned kept for readability at call sites.
func (p *Parser) GetSequenceCount() (uint32, error) {
	return p.GetUnsigned()
}
