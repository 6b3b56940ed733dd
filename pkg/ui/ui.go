// Package ui provides a unified interface for rendering output in different formats.
// It supports terminal (rich), text (plain), and JSON output formats.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/result"
	"github.com/arthur-debert/settle/pkg/ui/display"
	"github.com/arthur-debert/settle/pkg/ui/json"
	"github.com/arthur-debert/settle/pkg/ui/terminal"
	"github.com/arthur-debert/settle/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a display.Report, or any other value as best it can
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Not a file: probably a buffer, keep the output plain
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// RenderResult writes a settled result in the given format. JSON output is
// the result's own JSON form.
func RenderResult[T any](w io.Writer, format Format, r result.Result[T]) error {
	renderer, err := NewRenderer(format, w)
	if err != nil {
		return err
	}
	if _, ok := renderer.(*json.Renderer); ok {
		return renderer.RenderResult(r)
	}
	report := display.FromResult(r)
	return renderer.RenderResult(&report)
}
