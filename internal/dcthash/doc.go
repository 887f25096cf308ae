// Package dcthash computes and compares DCT-based perceptual image hashes.
//
// A hash is derived from a 32x32 grid of grayscale intensities. The grid is
// run through an unnormalized two-dimensional DCT-II, the 8x8 block of
// coefficients just past the DC row and column is thresholded against its
// median, and the 64 resulting bits are packed into a uint64 rendered as
// lowercase hexadecimal.
//
// Images that look alike (rescaled, recompressed) produce hashes a small
// Hamming distance apart; unrelated images land far apart. The hash is not
// cryptographic.
//
// # Hash Format
//
// Hashes are rendered without zero padding, so a hash whose leading nibbles
// are zero is shorter than 16 characters ("0" is a valid hash). Stored hashes
// depend on this form and it must not be changed to a fixed width. Parsing
// zero-extends short strings on the high-order side.
//
// # Preparing Input
//
// This package does not decode, resize or color-convert images. Callers hand
// it a Grid already reduced to EdgeSize x EdgeSize gray samples; the scale of
// the samples is irrelevant, only their relative order matters. See
// internal/imaging.IntensityGrid for the provider used by the server.
//
// # Errors
//
// Grid problems are reported as ErrInvalidGrid and hash string problems as
// ErrMalformedHash, so callers can tell a preprocessing failure from a
// corrupt stored hash. Use errors.Is to test for them.
//
// # Thread Safety
//
// Every function is pure and holds no package state. Hashes for different
// images can be computed concurrently without coordination.
package dcthash
