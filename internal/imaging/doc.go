// Package imaging loads images and reduces them to the intensity grids that
// internal/dcthash hashes.
//
// This package is the imaging side of the hashing pipeline: decoding,
// cropping, resampling and grayscale conversion all happen here, and the
// hash package only ever sees the resulting grid of numbers.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Intensity Grids
//
// IntensityGrid resizes an image to a size x size square with
// nearest-neighbour sampling, converts it to 256 gray levels without
// dithering and returns the gray values row by row. Three grayscale
// conversions are available:
//   - rec601: ITU-R BT.601 luma weights (the default)
//   - rec709: ITU-R BT.709 luma weights
//   - lightness: CIE L* from the Lab color space
//
// Hashes computed with different modes are not comparable with each other.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Supported Formats
//
// PNG, JPEG and GIF from the standard library, plus BMP, TIFF and WebP from
// golang.org/x/image.
package imaging
