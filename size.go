package binimg

import (
	"math"

	"github.com/esimov/binimg/utils"
)

// Channel counts supported by the grid mapper.
const (
	Gray = 1
	RGB  = 3
)

// Dimensions holds the width and height of a pixel grid.
type Dimensions struct {
	Width  int
	Height int
}

// Cells returns the number of grid cells.
func (d Dimensions) Cells() int {
	return d.Width * d.Height
}

// widthBuckets maps the upper bound of an effective data size to the grid width.
// The buckets are checked in order, so a size sitting on a shared bound
// goes to the narrower width.
var widthBuckets = []struct {
	limit int
	width int
}{
	{10240 - 1, 32},
	{10240 * 3, 64},
	{10240 * 6, 128},
	{10240 * 10, 256},
	{10240 * 20, 384},
	{10240 * 50, 512},
	{10240 * 100, 768},
}

const maxGridWidth = 1024

// effectiveSize returns the data length divided by the channel count, rounded up.
func effectiveSize(dataLen, channels int) int {
	if channels < 1 {
		channels = 1
	}
	return (dataLen + channels - 1) / channels
}

// GridSize computes the grid dimensions for dataLen bytes packed into cells of
// the given channel count. The width is picked from a fixed table of buckets
// which keeps the aspect ratio roughly constant across file sizes,
// while the height always reserves one extra row for the remainder.
func GridSize(dataLen, channels int) Dimensions {
	size := effectiveSize(utils.Max(dataLen, 0), channels)

	width := maxGridWidth
	for _, b := range widthBuckets {
		if size <= b.limit {
			width = b.width
			break
		}
	}

	return Dimensions{
		Width:  width,
		Height: size/width + 1,
	}
}

// SquareSize computes a square grid which is just big enough to hold dataLen bytes.
// It is used when an explicit square layout is requested instead of the bucketed widths.
func SquareSize(dataLen, channels int) Dimensions {
	size := effectiveSize(utils.Max(dataLen, 0), channels)
	side := int(math.Sqrt(float64(size))) + 1

	// Guard against float rounding on large perfect squares.
	for side*side < size {
		side++
	}
	return Dimensions{Width: side, Height: side}
}
