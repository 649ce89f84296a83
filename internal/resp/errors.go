package resp

import "errors"

// Decode errors. None of these are fatal to the process. ErrNotEnoughBytes
// and ErrNoStartingByte mean "read more"; any other decode error closes
// the connection that produced it (framing is corrupt) while other
// connections are unaffected; see internal/server.
var (
	// ErrNotEnoughBytes means the input is a valid prefix of a message
	// but the frame isn't complete yet; the caller should read more and
	// retry decoding from the start of the same buffer.
	ErrNotEnoughBytes = errors.New("resp: not enough bytes")

	// ErrInvalidFormat covers type-specific malformed framing: a bad
	// length, a missing CRLF where one was expected, and similar.
	ErrInvalidFormat = errors.New("resp: invalid format")

	// ErrInvalidStartingByte means the first byte was read but doesn't
	// match any of +,-,:,$,*.
	ErrInvalidStartingByte = errors.New("resp: invalid starting byte")

	// ErrNoStartingByte means the input slice was empty.
	ErrNoStartingByte = errors.New("resp: no starting byte")
)
