package binimg

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/binimg/utils"
	"github.com/go-playground/validator/v10"
)

// Output name suffixes of the two generated artifacts.
const (
	GraySuffix = "_Grayscale"
	RGBSuffix  = "_RGB"
)

const (
	defaultExt = ".png"
	vectorExt  = ".svg"
)

var validate = validator.New()

// Converter holds the options of a single file conversion.
type Converter struct {
	// Encoder writes the grids. ImageEncoder is used when nil.
	Encoder Encoder
	// Ext is the raster output extension, ".png" by default.
	Ext string `validate:"omitempty,oneof=.png .jpg .jpeg .bmp .tif .tiff .webp"`
	// CellSize is the pixel size of one grid cell in vector mode.
	CellSize int `validate:"gte=0,lte=1000"`
	// Scale, when set, resamples the raster output to the given size.
	Scale *image.Point
	// Vector switches the output to SVG documents.
	Vector bool
	// Square uses a square grid instead of the bucketed width table.
	Square bool
}

// Result holds the relevant information about one converted file.
type Result struct {
	Input     string
	Kind      string
	Size      int
	Grayscale string
	RGB       string
	GrayErr   error
	RGBErr    error
	Err       error
}

// Validate checks the converter options.
func (c *Converter) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid converter options: %w", err)
	}
	if c.Scale != nil && (c.Scale.X <= 0 || c.Scale.Y <= 0) {
		return fmt.Errorf("invalid converter options: scale should be positive, got %dx%d", c.Scale.X, c.Scale.Y)
	}
	return nil
}

// OutputExt returns the extension of the generated artifacts.
func (c *Converter) OutputExt() string {
	if c.Vector {
		return vectorExt
	}
	if c.Ext == "" {
		return defaultExt
	}
	return strings.ToLower(c.Ext)
}

// OutputPaths returns the grayscale and RGB artifact paths for the input file.
// Both are placed next to the input.
func (c *Converter) OutputPaths(in string) (gray, rgb string) {
	dir := filepath.Dir(in)
	name := filepath.Base(in)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = name
	}
	ext := c.OutputExt()

	return filepath.Join(dir, base+GraySuffix+ext), filepath.Join(dir, base+RGBSuffix+ext)
}

// IsArtifact reports whether the file name looks like an output of this converter.
func (c *Converter) IsArtifact(name string) bool {
	ext := c.OutputExt()
	if !strings.EqualFold(filepath.Ext(name), ext) {
		return false
	}
	base := name[:len(name)-len(ext)]
	return strings.HasSuffix(base, GraySuffix) || strings.HasSuffix(base, RGBSuffix)
}

// Run converts the input file into a grayscale and an RGB image.
// Both encodings are attempted even if one of them fails.
func (c *Converter) Run(in string) (Result, error) {
	res := Result{Input: in}

	buf, err := readFile(in)
	if err != nil {
		res.Err = err
		return res, err
	}
	res.Size = len(buf)
	res.Kind = utils.DetectContentType(buf)
	res.Grayscale, res.RGB = c.OutputPaths(in)

	res.GrayErr = c.convert(buf, Gray, res.Grayscale)
	res.RGBErr = c.convert(buf, RGB, res.RGB)
	res.Err = errors.Join(res.GrayErr, res.RGBErr)

	return res, res.Err
}

// convert maps the buffer into a grid with the given channel count and encodes it to out.
func (c *Converter) convert(buf []byte, channels int, out string) error {
	dims := GridSize(len(buf), channels)
	if c.Square {
		dims = SquareSize(len(buf), channels)
	}

	grid, err := Map(buf, dims, channels)
	if err != nil {
		return err
	}

	enc := c.Encoder
	if enc == nil {
		enc = ImageEncoder{}
	}
	if c.Vector {
		return enc.EncodeVector(grid, out, c.CellSize)
	}
	return enc.EncodeRaster(grid, out, c.Scale)
}

// readFile reads the whole content of a regular file.
func readFile(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrUnreadableFile, path)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return buf, nil
}
