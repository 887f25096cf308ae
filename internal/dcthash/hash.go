package dcthash

import (
	"fmt"
	"math"
)

const (
	// EdgeSize is the side length of the intensity grid.
	EdgeSize = 32

	// SubsampleStart and SubsampleEnd bound, inclusively, the frequency
	// block used for the hash. Starting at 1 skips the DC row and column,
	// which carry overall brightness rather than structure.
	SubsampleStart = 1
	SubsampleEnd   = 8

	// Bits is the hash length in bits.
	Bits = (SubsampleEnd - SubsampleStart + 1) * (SubsampleEnd - SubsampleStart + 1)

	// DefaultThreshold is the distance below which Similar treats two
	// hashes as the same image.
	DefaultThreshold = 13
)

// Hash is a perceptual hash in unpadded lowercase hexadecimal.
type Hash string

// String returns the hex form.
func (h Hash) String() string { return string(h) }

// Grid holds EdgeSize rows of EdgeSize grayscale samples. Any sample scale
// works; Calculate never modifies the grid.
type Grid [][]float64

// Validate checks that g is a square, power-of-two, EdgeSize grid of finite
// samples.
func (g Grid) Validate() error {
	n := len(g)
	if n == 0 {
		return fmt.Errorf("%w: grid is empty", ErrInvalidGrid)
	}
	for i, row := range g {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidGrid, i, len(row), n)
		}
	}
	if !isPowerOfTwo(n) {
		return fmt.Errorf("%w: side %d is not a power of two", ErrInvalidGrid, n)
	}
	if n != EdgeSize {
		return fmt.Errorf("%w: side %d, want %d", ErrInvalidGrid, n, EdgeSize)
	}
	for i, row := range g {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: sample (%d,%d) is not finite", ErrInvalidGrid, j, i)
			}
		}
	}
	return nil
}

// Calculate returns the perceptual hash of grid.
//
// The same grid always yields the same hash. An invalid grid yields an error
// wrapping ErrInvalidGrid.
func Calculate(grid Grid) (Hash, error) {
	if err := grid.Validate(); err != nil {
		return "", err
	}
	return encode(transform2D(grid))
}

// GridFromBytes builds a Grid from size*size row-major 8-bit samples, the
// layout of image.Gray.Pix for a tightly packed image.
func GridFromBytes(pix []uint8, size int) (Grid, error) {
	if size <= 0 || len(pix) != size*size {
		return nil, fmt.Errorf("%w: %d samples for side %d", ErrInvalidGrid, len(pix), size)
	}
	g := make(Grid, size)
	for y := 0; y < size; y++ {
		row := make([]float64, size)
		for x := 0; x < size; x++ {
			row[x] = float64(pix[y*size+x])
		}
		g[y] = row
	}
	return g, nil
}
