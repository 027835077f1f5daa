// Package reporting renders assembled reports into their output formats.
package reporting

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xkilldash9x/secreport/api/schemas"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// ErrUnsupportedFormat is returned for any format other than json or html.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Renderer turns a finished report into bytes of a single format.
type Renderer interface {
	// Render formats the report. It must not modify it.
	Render(report *schemas.Report) ([]byte, error)
	// ContentType is the MIME type of the rendered output.
	ContentType() string
}

// New returns the renderer for format. An empty format selects JSON.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return NewJSONRenderer(), nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// OpenOutput returns a writer for outputPath. An empty path or "stdout"
// writes to standard output, and closing it is a no-op.
func OpenOutput(outputPath string) (io.WriteCloser, error) {
	if outputPath == "" || outputPath == "stdout" {
		return &nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return f, nil
}
