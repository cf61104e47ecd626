package binimg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/esimov/binimg/utils"
)

// Grid is a row-major pixel grid built from raw bytes.
// Each cell holds Channels consecutive values in Pix.
// A grid is never modified after Map returns it.
type Grid struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// Map packs buf into a grid of the given dimensions, consuming one byte per cell
// in grayscale mode and three bytes (R, G, B) per cell in RGB mode.
// Cells without a complete set of source bytes are left black,
// and bytes beyond the grid capacity are dropped.
func Map(buf []byte, dims Dimensions, channels int) (*Grid, error) {
	if dims.Width <= 0 || dims.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, dims.Width, dims.Height)
	}
	if channels != Gray && channels != RGB {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidDimensions, channels)
	}

	capacity := dims.Cells() * channels
	pix := make([]uint8, capacity)

	n := utils.Min(len(buf), capacity)
	// Only whole cells are copied; a trailing partial cell stays zero.
	n -= n % channels
	copy(pix, buf[:n])

	return &Grid{
		Width:    dims.Width,
		Height:   dims.Height,
		Channels: channels,
		Pix:      pix,
	}, nil
}

// Dimensions returns the grid size.
func (g *Grid) Dimensions() Dimensions {
	return Dimensions{Width: g.Width, Height: g.Height}
}

func (g *Grid) offset(row, col int) int {
	return (row*g.Width + col) * g.Channels
}

// Gray returns the intensity of the cell. For RGB grids it returns the red channel.
func (g *Grid) Gray(row, col int) uint8 {
	return g.Pix[g.offset(row, col)]
}

// RGB returns the color channels of the cell.
// Grayscale cells are replicated across all three channels.
func (g *Grid) RGB(row, col int) (r, gr, b uint8) {
	i := g.offset(row, col)
	if g.Channels == Gray {
		v := g.Pix[i]
		return v, v, v
	}
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2]
}

// Color returns the opaque color of the cell.
func (g *Grid) Color(row, col int) color.NRGBA {
	r, gr, b := g.RGB(row, col)
	return color.NRGBA{R: r, G: gr, B: b, A: 0xff}
}

// Image converts the grid into an *image.Gray or an *image.NRGBA.
func (g *Grid) Image() image.Image {
	rect := image.Rect(0, 0, g.Width, g.Height)
	if g.Channels == Gray {
		img := image.NewGray(rect)
		copy(img.Pix, g.Pix)
		return img
	}

	img := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(g.Pix); i, j = i+RGB, j+4 {
		img.Pix[j+0] = g.Pix[i+0]
		img.Pix[j+1] = g.Pix[i+1]
		img.Pix[j+2] = g.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
