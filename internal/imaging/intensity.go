package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// GrayscaleMode selects how color pixels are reduced to a single intensity.
type GrayscaleMode string

const (
	// GrayscaleRec601 weights R, G, B by 0.299, 0.587, 0.114.
	GrayscaleRec601 GrayscaleMode = "rec601"

	// GrayscaleRec709 weights R, G, B by 0.2126, 0.7152, 0.0722.
	GrayscaleRec709 GrayscaleMode = "rec709"

	// GrayscaleLightness uses CIE L*, scaled to 0-255.
	GrayscaleLightness GrayscaleMode = "lightness"
)

// GrayscaleModes lists every supported mode, default first.
var GrayscaleModes = []GrayscaleMode{GrayscaleRec601, GrayscaleRec709, GrayscaleLightness}

// ParseGrayscaleMode validates a mode name. The empty string selects
// GrayscaleRec601.
func ParseGrayscaleMode(s string) (GrayscaleMode, error) {
	if s == "" {
		return GrayscaleRec601, nil
	}
	for _, m := range GrayscaleModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown grayscale mode: %s", s)
}

// IntensityGrid reduces img to a size x size grid of 8-bit gray levels,
// returned as float64 rows (grid[y][x]).
//
// The image is resampled with nearest-neighbour so no new intensities are
// invented by interpolation, then converted to gray with mode. There is no
// dithering.
func IntensityGrid(img image.Image, size int, mode GrayscaleMode) ([][]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid grid size: %d", size)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot build intensity grid from empty image")
	}

	resized := imaging.Resize(img, size, size, imaging.NearestNeighbor)

	gray, err := toGray(resized, mode)
	if err != nil {
		return nil, err
	}

	grid := make([][]float64, size)
	for y := 0; y < size; y++ {
		row := make([]float64, size)
		offset := y * gray.Stride
		for x := 0; x < size; x++ {
			row[x] = float64(gray.Pix[offset+x])
		}
		grid[y] = row
	}
	return grid, nil
}

// toGray converts img, which must start at (0,0) as imaging.Resize output
// does, to an 8-bit gray image.
func toGray(img *image.NRGBA, mode GrayscaleMode) (*image.Gray, error) {
	b := img.Bounds()
	switch mode {
	case GrayscaleRec601, "":
		g := imaging.Grayscale(img)
		return firstChannel(g.Pix, g.Stride, b.Dx(), b.Dy()), nil

	case GrayscaleRec709:
		g := effect.GrayscaleWithWeights(img, 0.2126, 0.7152, 0.0722)
		return firstChannel(g.Pix, g.Stride, b.Dx(), b.Dy()), nil

	case GrayscaleLightness:
		out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c, ok := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
				if !ok {
					// Fully transparent.
					continue
				}
				l, _, _ := c.Lab()
				out.Pix[y*out.Stride+x] = uint8(math.Round(math.Max(0, math.Min(1, l)) * 255))
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown grayscale mode: %s", mode)
}

// firstChannel copies the R channel of a 4-byte-per-pixel buffer whose
// color channels are already equal into a gray image.
func firstChannel(pix []uint8, stride, width, height int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Pix[y*out.Stride+x] = pix[y*stride+x*4]
		}
	}
	return out
}
