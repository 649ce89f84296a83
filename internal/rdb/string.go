package rdb

import (
	"encoding/binary"
	"strconv"
)

// decodeString reads one RESP-style length-prefixed byte string,
// handling the three integer-as-string special encodings. LZF
// (special encoding 3) is rejected with ErrUnsupportedEncoding; this
// decoder never performs LZF decompression.
func decodeString(b []byte) (string, int, error) {
	ln, n, err := decodeLength(b)
	if err != nil {
		return "", 0, err
	}
	rest := b[n:]

	if !ln.special {
		length := int(ln.value)
		if len(rest) < length {
			return "", 0, ErrTruncated
		}
		return string(rest[:length]), n + length, nil
	}

	switch ln.value {
	case lengthSpecialInt8:
		if len(rest) < 1 {
			return "", 0, ErrTruncated
		}
		v := int8(rest[0])
		return strconv.Itoa(int(v)), n + 1, nil

	case lengthSpecialInt16:
		if len(rest) < 2 {
			return "", 0, ErrTruncated
		}
		v := int16(binary.LittleEndian.Uint16(rest[:2]))
		return strconv.Itoa(int(v)), n + 2, nil

	case lengthSpecialInt32:
		if len(rest) < 4 {
			return "", 0, ErrTruncated
		}
		v := int32(binary.LittleEndian.Uint32(rest[:4]))
		return strconv.Itoa(int(v)), n + 4, nil

	case lengthSpecialLZF:
		return "", 0, ErrUnsupportedEncoding

	default:
		return "", 0, ErrUnsupportedEncoding
	}
}
