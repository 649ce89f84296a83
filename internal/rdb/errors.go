package rdb

import "errors"

var (
	// ErrBadMagic means the first 5 bytes of the file weren't "REDIS".
	ErrBadMagic = errors.New("rdb: invalid magic header")

	// ErrUnsupportedValueType means a value-type tag other than string
	// (0x00) was encountered; only string values are in scope.
	ErrUnsupportedValueType = errors.New("rdb: unsupported value type")

	// ErrUnsupportedEncoding means the length-encoding special case
	// selected LZF compression (special encoding 3). LZF decoding is an
	// explicit non-goal; the decoder rejects it rather than guessing.
	ErrUnsupportedEncoding = errors.New("rdb: unsupported encoding (LZF compression not implemented)")

	// ErrTruncated means the input ended before a length-declared field
	// (a string payload, a fixed-width timestamp, ...) could be read in full.
	ErrTruncated = errors.New("rdb: truncated input")
)
