package binimg

import (
	"io"

	svg "github.com/ajstarks/svgo"
)

// DefaultCellSize is the side length in pixels of one grid cell in vector output.
const DefaultCellSize = 10

// EncodeVector writes the grid as an SVG document where every cell
// becomes a filled cellSize x cellSize square.
func (ImageEncoder) EncodeVector(g *Grid, path string, cellSize int) error {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}

	return writeFile(path, func(w io.Writer) error {
		drawGrid(w, g, cellSize)
		return nil
	})
}

// drawGrid renders the grid cells as rectangles on a new SVG canvas.
func drawGrid(w io.Writer, g *Grid, cellSize int) {
	canvas := svg.New(w)
	canvas.Start(g.Width*cellSize, g.Height*cellSize)
	canvas.Gstyle("stroke:none")

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			r, gr, b := g.RGB(row, col)
			canvas.Rect(col*cellSize, row*cellSize, cellSize, cellSize,
				canvas.RGB(int(r), int(gr), int(b)),
			)
		}
	}
	canvas.Gend()
	canvas.End()
}
