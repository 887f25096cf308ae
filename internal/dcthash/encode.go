package dcthash

import (
	"fmt"
	"sort"
	"strconv"
)

// subsample flattens the low-frequency block of a transform2D result into
// the order that fixes bit positions: vertical frequency major, horizontal
// frequency minor, both over [SubsampleStart, SubsampleEnd].
func subsample(spectrum [][]float64) []float64 {
	size := SubsampleEnd - SubsampleStart + 1
	out := make([]float64, 0, size*size)
	for t := SubsampleStart; t <= SubsampleEnd; t++ {
		for s := SubsampleStart; s <= SubsampleEnd; s++ {
			out = append(out, spectrum[s][t])
		}
	}
	return out
}

// median returns the mean of the two middle values of values in sorted
// order. Only even lengths occur in practice; odd lengths are not special
// cased.
func median(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrMedianInput, len(values))
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// encode thresholds the subsampled spectrum against its median and packs
// the bits, first value most significant.
func encode(spectrum [][]float64) (Hash, error) {
	values := subsample(spectrum)
	m, err := median(values)
	if err != nil {
		return "", err
	}

	var packed uint64
	for _, v := range values {
		packed <<= 1
		// Ties go to 0.
		if v < m {
			packed |= 1
		}
	}
	return Hash(strconv.FormatUint(packed, 16)), nil
}
