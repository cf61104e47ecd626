package binimg

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEncoder keeps track of the encoded grids and fails for the configured paths.
type recordingEncoder struct {
	mu    sync.Mutex
	calls map[string]*Grid
	fail  func(path string) bool
}

func newRecordingEncoder(fail func(path string) bool) *recordingEncoder {
	return &recordingEncoder{calls: make(map[string]*Grid), fail: fail}
}

func (e *recordingEncoder) record(g *Grid, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls[path] = g
	if e.fail != nil && e.fail(path) {
		return &IOError{Path: path, Err: errors.New("disk full")}
	}
	return nil
}

func (e *recordingEncoder) EncodeRaster(g *Grid, path string, _ *image.Point) error {
	return e.record(g, path)
}

func (e *recordingEncoder) EncodeVector(g *Grid, path string, _ int) error {
	return e.record(g, path)
}

func (e *recordingEncoder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.calls)
}

func writeSample(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestConverter_RunWritesBothArtifacts(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	in := writeSample(t, dir, "sample.exe", []byte("MZ\x90\x00\x03\x00\x00\x00binary payload"))

	c := &Converter{}
	res, err := c.Run(in)
	require.NoError(t, err)

	assert.Equal(filepath.Join(dir, "sample_Grayscale.png"), res.Grayscale)
	assert.Equal(filepath.Join(dir, "sample_RGB.png"), res.RGB)
	assert.Equal(len("MZ\x90\x00\x03\x00\x00\x00binary payload"), res.Size)
	assert.NotEmpty(res.Kind)
	assert.NoError(res.GrayErr)
	assert.NoError(res.RGBErr)

	assert.FileExists(res.Grayscale)
	assert.FileExists(res.RGB)
}

func TestConverter_RunVectorMode(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir, "tool.bin", []byte{1, 2, 3, 4, 5, 6})

	c := &Converter{Vector: true, CellSize: 4}
	res, err := c.Run(in)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tool_Grayscale.svg"), res.Grayscale)
	assert.Equal(t, filepath.Join(dir, "tool_RGB.svg"), res.RGB)

	data, err := os.ReadFile(res.RGB)
	require.NoError(t, err)
	assert.Equal(t, 32, strings.Count(string(data), "<rect"))
	assert.Contains(t, string(data), `width="128"`)
}

func TestConverter_RunComputesIndependentGrids(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	data := make([]byte, 30000)
	in := writeSample(t, dir, "large", data)

	enc := newRecordingEncoder(nil)
	c := &Converter{Encoder: enc}
	res, err := c.Run(in)
	require.NoError(t, err)

	gray := enc.calls[res.Grayscale]
	rgb := enc.calls[res.RGB]
	require.NotNil(t, gray)
	require.NotNil(t, rgb)

	assert.Equal(Gray, gray.Channels)
	assert.Equal(Dimensions{Width: 64, Height: 30000/64 + 1}, gray.Dimensions())
	assert.Equal(RGB, rgb.Channels)
	assert.Equal(Dimensions{Width: 32, Height: 10000/32 + 1}, rgb.Dimensions())
}

func TestConverter_RunSquareLayout(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir, "square.dat", make([]byte, 100))

	enc := newRecordingEncoder(nil)
	res, err := (&Converter{Encoder: enc, Square: true}).Run(in)
	require.NoError(t, err)

	assert.Equal(t, Dimensions{Width: 11, Height: 11}, enc.calls[res.Grayscale].Dimensions())
	assert.Equal(t, Dimensions{Width: 6, Height: 6}, enc.calls[res.RGB].Dimensions())
}

func TestConverter_RunUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	c := &Converter{Encoder: newRecordingEncoder(nil)}

	_, err := c.Run(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrUnreadableFile)

	res, err := c.Run(dir)
	assert.ErrorIs(t, err, ErrUnreadableFile)
	assert.ErrorIs(t, res.Err, ErrUnreadableFile)
}

func TestConverter_OneFailureDoesNotAbortTheOther(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	in := writeSample(t, dir, "sample", []byte{1, 2, 3})

	enc := newRecordingEncoder(func(path string) bool {
		return strings.Contains(path, GraySuffix)
	})
	res, err := (&Converter{Encoder: enc}).Run(in)

	require.Error(t, err)
	assert.Equal(2, enc.count())

	var ioErr *IOError
	assert.ErrorAs(res.GrayErr, &ioErr)
	assert.Equal(res.Grayscale, ioErr.Path)
	assert.NoError(res.RGBErr)
	assert.ErrorIs(err, res.GrayErr)
}

func TestConverter_OutputPaths(t *testing.T) {
	assert := assert.New(t)

	c := &Converter{Ext: ".BMP"}
	gray, rgb := c.OutputPaths(filepath.Join("samples", "calc.exe"))
	assert.Equal(filepath.Join("samples", "calc_Grayscale.bmp"), gray)
	assert.Equal(filepath.Join("samples", "calc_RGB.bmp"), rgb)

	gray, _ = c.OutputPaths(filepath.Join("samples", ".profile"))
	assert.Equal(filepath.Join("samples", ".profile_Grayscale.bmp"), gray)

	assert.True(c.IsArtifact("calc_RGB.bmp"))
	assert.True(c.IsArtifact("calc_Grayscale.BMP"))
	assert.False(c.IsArtifact("calc_RGB.png"))
	assert.False(c.IsArtifact("calc.exe"))
	assert.True((&Converter{Vector: true}).IsArtifact("calc_RGB.svg"))
}

func TestConverter_Validate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError((&Converter{}).Validate())
	assert.NoError((&Converter{Ext: ".webp", CellSize: 10}).Validate())
	assert.Error((&Converter{Ext: ".gif"}).Validate())
	assert.Error((&Converter{CellSize: -1}).Validate())
	assert.Error((&Converter{Scale: &image.Point{X: 0, Y: 10}}).Validate())
}
