package binimg

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder writes a pixel grid to disk, either as a bitmap or as a vector document.
type Encoder interface {
	EncodeRaster(g *Grid, path string, scale *image.Point) error
	EncodeVector(g *Grid, path string, cellSize int) error
}

// ImageEncoder is the default Encoder implementation.
// The raster format is selected by the extension of the output path.
type ImageEncoder struct{}

var _ Encoder = ImageEncoder{}

// RasterExtensions lists the supported bitmap output extensions.
var RasterExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// isRasterExt checks for the supported raster extensions.
func isRasterExt(ext string) bool {
	for _, ex := range RasterExtensions {
		if ex == ext {
			return true
		}
	}
	return false
}

// EncodeRaster encodes the grid as a bitmap. If scale is not nil the image is
// resampled to the requested size with nearest-neighbor filtering before it is written.
func (ImageEncoder) EncodeRaster(g *Grid, path string, scale *image.Point) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !isRasterExt(ext) {
		return &IOError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}

	var img image.Image = g.Image()
	if scale != nil && scale.X > 0 && scale.Y > 0 {
		img = imaging.Resize(img, scale.X, scale.Y, imaging.NearestNeighbor)
	}

	return writeFile(path, func(w io.Writer) error {
		return encodeImg(w, ext, img)
	})
}

// encodeImg encodes an image to w in the format matching ext.
func encodeImg(w io.Writer, ext string, img image.Image) error {
	switch ext {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".webp":
		return webp.Encode(w, img, &webp.Options{Lossless: true, Exact: true})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// writeFile creates path and streams the encoder output into it through a buffered writer.
// Any failure is reported as an *IOError. A partially written file is left in place.
func writeFile(path string, encode func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Path: path, Err: cerr}
		}
	}()

	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}
