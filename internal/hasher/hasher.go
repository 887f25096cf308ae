// Package hasher turns decoded images into comparable hash strings.
//
// The default algorithm is the DCT hash from internal/dcthash. The phash,
// ahash and dhash algorithms from goimagehash are offered alongside it; their
// 64-bit values are rendered in the same unpadded lowercase hex so that
// dcthash.Distance compares any two hashes of the same algorithm.
package hasher

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/corona10/goimagehash"

	"github.com/ironsheep/image-hash-mcp/internal/dcthash"
	"github.com/ironsheep/image-hash-mcp/internal/imaging"
)

// Algorithm names a hash algorithm.
type Algorithm string

const (
	AlgorithmDCT   Algorithm = "dct"
	AlgorithmPHash Algorithm = "phash"
	AlgorithmAHash Algorithm = "ahash"
	AlgorithmDHash Algorithm = "dhash"
)

// Algorithms lists every supported algorithm, default first.
var Algorithms = []Algorithm{AlgorithmDCT, AlgorithmPHash, AlgorithmAHash, AlgorithmDHash}

// ParseAlgorithm validates an algorithm name. The empty string selects
// AlgorithmDCT.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return AlgorithmDCT, nil
	}
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown hash algorithm: %s", s)
}

// Result is the hash of one image.
type Result struct {
	Algorithm Algorithm    `json:"algorithm"`
	Hash      dcthash.Hash `json:"hash"`
	Bits      int          `json:"bits"`
}

// Hasher hashes images with a fixed algorithm and grayscale mode. The zero
// value hashes with AlgorithmDCT and imaging.GrayscaleRec601. A Hasher holds
// no mutable state and is safe for concurrent use.
type Hasher struct {
	Algorithm Algorithm
	Grayscale imaging.GrayscaleMode
}

// HashImage returns the hash of img.
func (h Hasher) HashImage(img image.Image) (Result, error) {
	alg := h.Algorithm
	if alg == "" {
		alg = AlgorithmDCT
	}

	if alg == AlgorithmDCT {
		grid, err := imaging.IntensityGrid(img, dcthash.EdgeSize, h.Grayscale)
		if err != nil {
			return Result{}, fmt.Errorf("failed to prepare image: %w", err)
		}
		hash, err := dcthash.Calculate(dcthash.Grid(grid))
		if err != nil {
			return Result{}, fmt.Errorf("failed to hash image: %w", err)
		}
		return Result{Algorithm: alg, Hash: hash, Bits: dcthash.Bits}, nil
	}

	var (
		ih  *goimagehash.ImageHash
		err error
	)
	switch alg {
	case AlgorithmPHash:
		ih, err = goimagehash.PerceptionHash(img)
	case AlgorithmAHash:
		ih, err = goimagehash.AverageHash(img)
	case AlgorithmDHash:
		ih, err = goimagehash.DifferenceHash(img)
	default:
		return Result{}, fmt.Errorf("unknown hash algorithm: %s", alg)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to hash image: %w", err)
	}
	return Result{
		Algorithm: alg,
		Hash:      dcthash.Hash(strconv.FormatUint(ih.GetHash(), 16)),
		Bits:      64,
	}, nil
}

// HashFile loads path through cache and hashes it.
func (h Hasher) HashFile(cache *imaging.ImageCache, path string) (Result, error) {
	img, err := cache.Load(path)
	if err != nil {
		return Result{}, err
	}
	return h.HashImage(img)
}

// FileResult is the outcome of hashing one path in a batch. Exactly one of
// Result and Error is set.
type FileResult struct {
	Path   string  `json:"path"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// HashFiles hashes paths with up to workers goroutines. Results are returned
// in input order. Paths not started before ctx is done report ctx.Err().
func (h Hasher) HashFiles(ctx context.Context, cache *imaging.ImageCache, paths []string, workers int) []FileResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = h.hashOne(ctx, cache, paths[i])
			}
		}()
	}

	for i := range paths {
		if ctx.Err() != nil {
			results[i] = FileResult{Path: paths[i], Error: ctx.Err().Error()}
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (h Hasher) hashOne(ctx context.Context, cache *imaging.ImageCache, path string) FileResult {
	if err := ctx.Err(); err != nil {
		return FileResult{Path: path, Error: err.Error()}
	}
	res, err := h.HashFile(cache, path)
	if err != nil {
		return FileResult{Path: path, Error: err.Error()}
	}
	return FileResult{Path: path, Result: &res}
}
