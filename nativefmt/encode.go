package nativefmt

// EncodeUnsigned produces the variable-length encoding of value, the
// inverse of Reader.DecodeUnsigned.
func EncodeUnsigned(value uint32) []byte {
	switch {
	case value < 1<<7:
		return []byte{byte(value << 1)}
	case value < 1<<14:
		v := value<<2 | 1
		return []byte{byte(v), byte(v >> 8)}
	case value < 1<<21:
		v := value<<3 | 3
		return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
	case value < 1<<28:
		v := value<<4 | 7
		return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	default:
		b := make([]byte, 5)
		b[0] = 0b0_1111
		b[1] = byte(value)
		b[2] = byte(value >> 8)
		b[3] = byte(value >> 16)
		b[4] = byte(value >> 24)
		return b
	}
}

// EncodeSigned produces the variable-length encoding of a signed value,
// the inverse of Reader.DecodeSigned. Only the 1-byte form and the 5-byte
// raw form sign-extend on decode (the source's multi-byte fragments are
// zero-extended before being OR'd together); values outside the 1-byte
// range that aren't representable as a non-negative unsigned encoding fall
// back to the 5-byte raw form, which round-trips any int32 via bit-pattern
// reinterpretation.
func EncodeSigned(value int32) []byte {
	if value >= -(1<<6) && value < 1<<6 {
		return []byte{byte(value << 1)}
	}
	if value >= 0 && value < 1<<28 {
		return EncodeUnsigned(uint32(value))
	}

	u := uint32(value)
	b := make([]byte, 5)
	b[0] = 0b0_1111
	b[1] = byte(u)
	b[2] = byte(u >> 8)
	b[3] = byte(u >> 16)
	b[4] = byte(u >> 24)
	return b
}

// EncodeUnsignedLong produces the variable-length encoding of a 64-bit
// value, using the regular unsigned form when it fits in 32 bits and the
// 9-byte escape form (marker 0x1F followed by 8 little-endian bytes)
// otherwise.
func EncodeUnsignedLong(value uint64) []byte {
	if value <= 0xFFFFFFFF {
		return EncodeUnsigned(uint32(value))
	}

	b := make([]byte, 9)
	b[0] = 0b0_11111
	for i := 0; i < 8; i++ {
		b[i+1] = byte(value >> (8 * i))
	}
	return b
}
