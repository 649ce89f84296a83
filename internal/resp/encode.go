package resp

import (
	"strconv"
)

// Encode serializes m into RESP wire format. Encoding is total for any
// well-formed Message — it never fails.
func Encode(m Message) []byte {
	buf := make([]byte, 0, 32)
	return appendMessage(buf, m)
}

func appendMessage(buf []byte, m Message) []byte {
	switch m.Type {
	case TypeSimpleString:
		buf = append(buf, '+')
		buf = append(buf, m.Str...)
		return append(buf, '\r', '\n')

	case TypeError:
		buf = append(buf, '-')
		buf = append(buf, m.Str...)
		return append(buf, '\r', '\n')

	case TypeInteger:
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, m.Int, 10)
		return append(buf, '\r', '\n')

	case TypeBulkString:
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(m.Bulk)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, m.Bulk...)
		return append(buf, '\r', '\n')

	case TypeNullBulkString:
		return append(buf, '$', '-', '1', '\r', '\n')

	case TypeArray:
		buf = append(buf, '*')
		buf = strconv.AppendInt(buf, int64(len(m.Array)), 10)
		buf = append(buf, '\r', '\n')
		for _, elem := range m.Array {
			buf = appendMessage(buf, elem)
		}
		return buf

	default:
		// Unreachable for messages built via the constructors in message.go.
		return buf
	}
}

// WriteCommand encodes args as a RESP array of bulk strings — the shape
// every outbound command (replica handshake, future client helpers)
// sends over the wire.
func WriteCommand(args ...string) []byte {
	elems := make([]Message, len(args))
	for i, a := range args {
		elems[i] = BulkStringFromString(a)
	}
	return Encode(Array(elems...))
}
