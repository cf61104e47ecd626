package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/esimov/binimg"
	"github.com/esimov/binimg/utils"
)

const HelpBanner = `
┌┐ ┬┌┐┌┬┌┬┐┌─┐
├┴┐││││││││├ ┬
└─┘┴┘└┘┴┴ ┴└─┘

Binary file to image converter.
    Version: %s

Usage: binimg [flags] <input_dir> <worker_count>

`

// Version indicates the current build version.
var Version string

var (
	// Flags
	mode      = flag.String("mode", "raster", "Output mode: raster or vector")
	ext       = flag.String("ext", ".png", "Raster output extension (.png, .jpg, .bmp, .tiff, .webp)")
	square    = flag.Bool("square", false, "Use a square grid instead of the size based width")
	scale     = flag.String("scale", "", "Resize the raster output to WxH using nearest-neighbor sampling")
	cellSize  = flag.Int("cell", binimg.DefaultCellSize, "Cell size in pixels for the vector output")
	sentryDSN = flag.String("sentry-dsn", "", "Report failed conversions to Sentry")
	spinner   = flag.Bool("spinner", true, "Show the progress indicator")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	workers, err := strconv.Atoi(flag.Arg(1))
	if err != nil {
		log.Fatalf("%s %s",
			utils.DecorateText("Invalid worker count:", utils.ErrorMessage),
			utils.DecorateText(flag.Arg(1), utils.DefaultMessage),
		)
	}

	conv := &binimg.Converter{
		Ext:      *ext,
		CellSize: *cellSize,
		Square:   *square,
	}

	switch *mode {
	case "raster":
	case "vector":
		conv.Vector = true
	default:
		log.Fatalf(utils.DecorateText("Unsupported mode: %q, use raster or vector", utils.ErrorMessage), *mode)
	}

	if *scale != "" {
		pt, err := parseScale(*scale)
		if err != nil {
			log.Fatalf(utils.DecorateText("Invalid scale: %v", utils.ErrorMessage), err)
		}
		conv.Scale = &pt
	}

	if err := conv.Validate(); err != nil {
		log.Fatalf(utils.DecorateText("%v", utils.ErrorMessage), err)
	}

	_, err = conv.Execute(&binimg.Ops{
		Dir:       flag.Arg(0),
		Workers:   workers,
		SentryDSN: *sentryDSN,
		Spinner:   *spinner,
	})
	if err != nil {
		log.Fatalf(utils.DecorateText("%v", utils.ErrorMessage), err)
	}
}

// parseScale parses a WxH size definition.
func parseScale(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("expected WxH, got %q", s)
	}
	x, err := strconv.Atoi(w)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid width: %w", err)
	}
	y, err := strconv.Atoi(h)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid height: %w", err)
	}
	if x <= 0 || y <= 0 {
		return image.Point{}, fmt.Errorf("width and height should be positive, got %dx%d", x, y)
	}
	return image.Pt(x, y), nil
}
