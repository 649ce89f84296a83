package resp

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []Message{
		SimpleString("PONG"),
		SimpleString("OK"),
		Err("ERR unknown command 'FOO'"),
		Integer(0),
		Integer(-42),
		Integer(1 << 40),
		BulkStringFromString("hello"),
		BulkString([]byte{}),
		BulkString([]byte{0xff, 0x00, 0x01, 'x'}), // non-UTF-8 payload
		NullBulkString(),
		Array(),
		ArrayOfBulkStrings("PING"),
		ArrayOfBulkStrings("SET", "foo", "bar"),
		Array(Integer(1), Integer(2), BulkStringFromString("three")),
	}

	for _, m := range cases {
		encoded := Encode(m)
		decoded, n, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode(%q): %v", encoded, err)
		}
		if n != len(encoded) {
			t.Fatalf("decode(%q): consumed %d, want %d", encoded, n, len(encoded))
		}
		if !messagesEqual(m, decoded) {
			t.Fatalf("round trip mismatch: %+v != %+v", m, decoded)
		}
	}
}

func TestPrefixInvariance(t *testing.T) {
	m := ArrayOfBulkStrings("ECHO", "hello")
	encoded := Encode(m)
	trailing := append(append([]byte{}, encoded...), []byte("*1\r\n$4\r\nPING\r\n")...)

	decoded, n, err := Decode(trailing)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(encoded) {
		t.Fatalf("consumed %d bytes, want %d (trailing bytes must not be consumed)", n, len(encoded))
	}
	if !messagesEqual(m, decoded) {
		t.Fatalf("mismatch with trailing bytes present: %+v != %+v", m, decoded)
	}
}

func TestDecodeIncomplete(t *testing.T) {
	full := Encode(ArrayOfBulkStrings("SET", "foo", "bar"))
	for i := 0; i < len(full); i++ {
		want := ErrNotEnoughBytes
		if i == 0 {
			want = ErrNoStartingByte
		}
		_, _, err := Decode(full[:i])
		if err != want {
			t.Fatalf("prefix length %d: got err %v, want %v", i, err, want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, _, err := Decode(nil)
		if err != ErrNoStartingByte {
			t.Fatalf("got %v, want ErrNoStartingByte", err)
		}
	})
	t.Run("bad starting byte", func(t *testing.T) {
		_, _, err := Decode([]byte("?garbage\r\n"))
		if err != ErrInvalidStartingByte {
			t.Fatalf("got %v, want ErrInvalidStartingByte", err)
		}
	})
	t.Run("negative non-null bulk length", func(t *testing.T) {
		_, _, err := Decode([]byte("$-2\r\n"))
		if err == nil {
			t.Fatal("expected error for bulk length -2")
		}
	})
	t.Run("bulk missing trailing CRLF", func(t *testing.T) {
		_, _, err := Decode([]byte("$3\r\nbarXX"))
		if err == nil {
			t.Fatal("expected error for missing trailing CRLF")
		}
	})
}

func TestScenarioAPing(t *testing.T) {
	req := []byte("*1\r\n$4\r\nPING\r\n")
	m, n, err := Decode(req)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(req) {
		t.Fatalf("consumed %d, want %d", n, len(req))
	}
	if m.Type != TypeArray || len(m.Array) != 1 || string(m.Array[0].Bulk) != "PING" {
		t.Fatalf("unexpected decode: %+v", m)
	}
	reply := Encode(SimpleString("PONG"))
	if string(reply) != "+PONG\r\n" {
		t.Fatalf("got %q", reply)
	}
}

func TestScenarioBEcho(t *testing.T) {
	req := []byte("*2\r\n$4\r\nECHO\r\n$5\r\nhello\r\n")
	m, _, err := Decode(req)
	if err != nil {
		t.Fatal(err)
	}
	arg := m.Array[1]
	reply := Encode(BulkString(arg.Bulk))
	if string(reply) != "$5\r\nhello\r\n" {
		t.Fatalf("got %q", reply)
	}
}

func messagesEqual(a, b Message) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeSimpleString, TypeError:
		return a.Str == b.Str
	case TypeInteger:
		return a.Int == b.Int
	case TypeBulkString:
		return bytes.Equal(a.Bulk, b.Bulk)
	case TypeNullBulkString:
		return true
	case TypeArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !messagesEqual(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	}
	return false
}
