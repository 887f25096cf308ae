package dcthash

import (
	"fmt"
	"math/bits"
	"strconv"
)

// ParseHash decodes a hex hash into its 64-bit value. Short strings are
// zero-extended; upper-case digits are accepted.
func ParseHash(h Hash) (uint64, error) {
	if h == "" {
		return 0, fmt.Errorf("%w: empty string", ErrMalformedHash)
	}
	v, err := strconv.ParseUint(string(h), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedHash, string(h), err)
	}
	return v, nil
}

// Distance returns the number of bit positions in which a and b differ, in
// [0, Bits].
func Distance(a, b Hash) (int, error) {
	va, err := ParseHash(a)
	if err != nil {
		return 0, fmt.Errorf("first hash: %w", err)
	}
	vb, err := ParseHash(b)
	if err != nil {
		return 0, fmt.Errorf("second hash: %w", err)
	}
	return Hamming(va, vb), nil
}

// Hamming returns the number of differing bits between two parsed hash
// values.
func Hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether a and b are closer than DefaultThreshold.
func Similar(a, b Hash) (bool, error) {
	return SimilarWithin(a, b, DefaultThreshold)
}

// SimilarWithin reports whether Distance(a, b) is strictly less than
// threshold. A distance equal to the threshold is not similar.
func SimilarWithin(a, b Hash, threshold int) (bool, error) {
	d, err := Distance(a, b)
	if err != nil {
		return false, err
	}
	return d < threshold, nil
}
