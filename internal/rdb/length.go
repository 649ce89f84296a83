package rdb

import (
	"encoding/binary"
	"fmt"
)

// length holds the result of decoding one RDB length field: either a
// plain length, or a "special encoding" selector (integer-as-string
// width, or LZF) carried in the same 6 low bits.
type length struct {
	value   uint64
	special bool
}

// decodeLength reads one RDB length field: the top two bits of the
// first byte select one of three width classes or a special encoding.
// Returns the decoded length (or special selector) and the number of
// bytes consumed.
func decodeLength(b []byte) (length, int, error) {
	if len(b) < 1 {
		return length{}, 0, ErrTruncated
	}
	first := b[0]
	switch first >> 6 {
	case 0b00:
		return length{value: uint64(first & 0x3F)}, 1, nil

	case 0b01:
		if len(b) < 2 {
			return length{}, 0, ErrTruncated
		}
		v := (uint64(first&0x3F) << 8) | uint64(b[1])
		return length{value: v}, 2, nil

	case 0b10:
		if len(b) < 5 {
			return length{}, 0, ErrTruncated
		}
		v := binary.BigEndian.Uint32(b[1:5])
		return length{value: uint64(v)}, 5, nil

	case 0b11:
		return length{value: uint64(first & 0x3F), special: true}, 1, nil

	default:
		return length{}, 0, fmt.Errorf("rdb: impossible length class")
	}
}
