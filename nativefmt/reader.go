package nativefmt

import "encoding/binary"

// maxReaderLen mirrors the source's guard against offset arithmetic
// overflowing the 32-bit encoding: no borrowed slice may be as large as
// one quarter of the uint32 range.
const maxReaderLen = int((^uint32(0)) / 4)

// Reader borrows an immutable byte slice and decodes primitives and
// variable-length integers from it. It is stateless: every offset is
// supplied by the caller, which lets the same Reader back many concurrent
// Parsers over disjoint or overlapping regions.
type Reader struct {
	data []byte
}

// NewReader wraps data for decoding. Returns ErrBadImage if data is so
// large that a 32-bit offset could overflow.
func NewReader(data []byte) (*Reader, error) {
	if len(data) >= maxReaderLen {
		return nil, ErrBadImage
	}
	return &Reader{data: data}, nil
}

func (r *Reader) ensureInRange(offset, lookAhead int) error {
	if offset < 0 || offset+lookAhead >= len(r.data) {
		return ErrBadImage
	}
	return nil
}

// ReadU8 reads a single byte at offset.
func (r *Reader) ReadU8(offset int) (uint8, error) {
	if offset < 0 || offset >= len(r.data) {
		return 0, ErrBadImage
	}
	return r.data[offset], nil
}

// ReadU16 reads a little-endian uint16 at offset.
func (r *Reader) ReadU16(offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(r.data) {
		return 0, ErrBadImage
	}
	return binary.LittleEndian.Uint16(r.data[offset:]), nil
}

// ReadU32 reads a little-endian uint32 at offset.
func (r *Reader) ReadU32(offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(r.data) {
		return 0, ErrBadImage
	}
	return binary.LittleEndian.Uint32(r.data[offset:]), nil
}

// ReadU64 reads a little-endian uint64 at offset.
func (r *Reader) ReadU64(offset int) (uint64, error) {
	if offset < 0 || offset+8 > len(r.data) {
		return 0, ErrBadImage
	}
	return binary.LittleEndian.Uint64(r.data[offset:]), nil
}

// DecodeUnsigned decodes a variable-length unsigned 32-bit integer starting
// at *offset, advancing *offset past the encoding. The low-order run of one
// bits in the first byte selects the encoding width: 1 trailing zero bit
// means a 1-byte form (7 value bits), "01" a 2-byte form (14 bits), "011" a
// 3-byte form (21 bits), "0111" a 4-byte form (28 bits), and "01111" a
// 1-marker-plus-4-raw-byte form (32 bits). Any other marker is invalid.
func (r *Reader) DecodeUnsigned(offset *int) (uint32, error) {
	if err := r.ensureInRange(*offset, 0); err != nil {
		return 0, err
	}

	val := uint32(r.data[*offset])

	switch {
	case val&1 == 0:
		v := val >> 1
		*offset++
		return v, nil
	case val&2 == 0:
		if *offset+1 > len(r.data) {
			return 0, ErrBadImage
		}
		b1, err := r.ReadU8(*offset + 1)
		if err != nil {
			return 0, err
		}
		v := (val >> 2) | (uint32(b1) << 6)
		*offset += 2
		return v, nil
	case val&4 == 0:
		if *offset+2 >= len(r.data) {
			return 0, ErrBadImage
		}
		b1, err := r.ReadU8(*offset + 1)
		if err != nil {
			return 0, err
		}
		b2, err := r.ReadU8(*offset + 2)
		if err != nil {
			return 0, err
		}
		v := (val >> 3) | (uint32(b1) << 5) | (uint32(b2) << 13)
		*offset += 3
		return v, nil
	case val&8 == 0:
		if *offset+3 >= len(r.data) {
			return 0, ErrBadImage
		}
		b1, err := r.ReadU8(*offset + 1)
		if err != nil {
			return 0, err
		}
		b2, err := r.ReadU8(*offset + 2)
		if err != nil {
			return 0, err
		}
		b3, err := r.ReadU8(*offset + 3)
		if err != nil {
			return 0, err
		}
		v := (val >> 4) | (uint32(b1) << 4) | (uint32(b2) << 12) | (uint32(b3) << 20)
		*offset += 4
		return v, nil
	case val&16 == 0:
		v, err := r.ReadU32(*offset + 1)
		if err != nil {
			return 0, err
		}
		*offset += 5
		return v, nil
	default:
		return 0, ErrBadImage
	}
}

// DecodeSigned decodes a variable-length signed 32-bit integer, mirroring
// DecodeUnsigned but sign-extending the top fragment of each width (an
// arithmetic shift of a signed byte for the 1-byte case).
func (r *Reader) DecodeSigned(offset *int) (int32, error) {
	if err := r.ensureInRange(*offset, 0); err != nil {
		return 0, err
	}

	val := int32(int8(r.data[*offset]))
	raw := uint32(r.data[*offset])

	switch {
	case raw&1 == 0:
		v := int32(val) >> 1
		*offset++
		return v, nil
	case raw&2 == 0:
		if *offset+1 > len(r.data) {
			return 0, ErrBadImage
		}
		b1, err := r.ReadU8(*offset + 1)
		if err != nil {
			return 0, err
		}
		v := (int32(raw) >> 2) | (int32(b1) << 6)
		*offset += 2
		return v, nil
	case raw&4 == 0:
		if *offset+2 >= len(r.data) {
			return 0, ErrBadImage
		}
		b1, err := r.ReadU8(*offset + 1)
		if err != nil {
			return 0, err
		}
		b2, err := r.ReadU8(*offset + 2)
		if err != nil {
			return 0, err
		}
		v := (int32(raw) >> 3) | (int32(b1) << 5) | (int32(b2) << 13)
		*offset += 3
		return v, nil
	case raw&8 == 0:
		if *offset+3 >= len(r.data) {
			return 0, ErrBadImage
		}
		b1, err := r.ReadU8(*offset + 1)
		if err != nil {
			return 0, err
		}
		b2, err := r.ReadU8(*offset + 2)
		if err != nil {
			return 0, err
		}
		b3, err := r.ReadU8(*offset + 3)
		if err != nil {
			return 0, err
		}
		v := (int32(raw) >> 4) | (int32(b1) << 4) | (int32(b2) << 12) | (int32(b3) << 20)
		*offset += 4
		return v, nil
	case raw&16 == 0:
		u, err := r.ReadU32(*offset + 1)
		if err != nil {
			return 0, err
		}
		*offset += 5
		return int32(u), nil
	default:
		return 0, ErrBadImage
	}
}

// DecodeUnsignedLong decodes a 64-bit unsigned "long" variant: when the low
// 5 bits of the marker byte aren't all set, it falls back to the regular
// unsigned encoding; otherwise (marker low 5 bits == 0b11111) bit 5 selects
// between a 9-byte escape (1 marker + 8 raw little-endian bytes) and an
// invalid form.
func (r *Reader) DecodeUnsignedLong(offset *int) (uint64, error) {
	b, err := r.ReadU8(*offset)
	if err != nil {
		return 0, err
	}

	if b&31 != 31 {
		v, err := r.DecodeUnsigned(offset)
		return uint64(v), err
	}
	if b&32 == 0 {
		v, err := r.ReadU64(*offset + 1)
		if err != nil {
			return 0, err
		}
		*offset += 9
		return v, nil
	}
	return 0, ErrBadImage
}

// DecodeSignedLong is the signed counterpart of DecodeUnsignedLong.
func (r *Reader) DecodeSignedLong(offset *int) (int64, error) {
	b, err := r.ReadU8(*offset)
	if err != nil {
		return 0, err
	}

	if b&31 != 31 {
		v, err := r.DecodeSigned(offset)
		return int64(v), err
	}
	if b&32 == 0 {
		u, err := r.ReadU64(*offset + 1)
		if err != nil {
			return 0, err
		}
		*offset += 9
		return int64(u), nil
	}
	return 0, ErrBadImage
}

// DecodeString decodes a length-prefixed UTF-8 string. A zero length yields
// the empty string without reading any payload bytes.
func (r *Reader) DecodeString(offset *int) (string, error) {
	length, err := r.DecodeUnsigned(offset)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}

	end := *offset + int(length)
	if end < int(length) || *offset > len(r.data) || end > len(r.data) {
		return "", ErrBadImage
	}

	s := string(r.data[*offset:end])
	*offset = end
	return s, nil
}

// Bytes returns a sub-slice of the borrowed image data, without copying.
func (r *Reader) Bytes(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 {
		return nil, ErrBadImage
	}
	end := offset + length
	if end < offset || end > len(r.data) {
		return nil, ErrBadImage
	}
	return r.data[offset:end], nil
}

// SkipInteger advances *offset past one variable-length integer without
// decoding its value, by inspecting only the marker byte's width.
func (r *Reader) SkipInteger(offset *int) error {
	val, err := r.ReadU8(*offset)
	if err != nil {
		return err
	}

	switch {
	case val&1 == 0:
		*offset += 1
	case val&2 == 0:
		*offset += 2
	case val&4 == 0:
		*offset += 3
	case val&8 == 0:
		*offset += 4
	case val&16 == 0:
		*offset += 5
	case val&32 == 0:
		*offset += 9
	default:
		return ErrBadImage
	}
	return nil
}

// GetUnsignedEncodingSize reports the number of bytes DecodeUnsigned would
// consume to decode value, without performing the decode.
func GetUnsignedEncodingSize(value uint32) uint32 {
	switch {
	case value < 128:
		return 1
	case value < 128*128:
		return 2
	case value < 128*128*128:
		return 3
	case value < 128*128*128*128:
		return 4
	default:
		return 5
	}
}
