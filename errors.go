package binimg

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableFile is returned when the input path is missing, unreadable or not a regular file.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrInvalidDimensions is returned when a grid would have a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrUnsupportedFormat is returned when the output extension has no registered encoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrOutputConflict is returned when two inputs of a batch would produce the same artifacts.
	ErrOutputConflict = errors.New("output path already used")

	// ErrInvalidWorkers is returned by the scheduler when the worker count is not positive.
	ErrInvalidWorkers = errors.New("worker count should be greater than zero")
)

// IOError reports a failure to write one output artifact.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("could not write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
