package dcthash

import "errors"

var (
	// ErrInvalidGrid is returned when the intensity grid is not a finite,
	// EdgeSize x EdgeSize square.
	ErrInvalidGrid = errors.New("invalid intensity grid")

	// ErrMalformedHash is returned when a hash string is empty, contains
	// non-hex characters or encodes more than 64 bits.
	ErrMalformedHash = errors.New("malformed hash")

	// ErrMedianInput is returned when a median is requested over fewer than
	// two values.
	ErrMedianInput = errors.New("median needs at least two values")
)
