package utils

import (
	"os"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/term"
)

// DetectContentType detects the MIME type of the data by inspecting its leading bytes.
// It always returns a valid content type and "application/octet-stream" if no others seemed to match.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsTerminal reports whether the file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
