// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/settle/pkg/ui/display"
	"github.com/arthur-debert/settle/pkg/ui/styles"
)

// Renderer provides rich terminal output styled with lipgloss
type Renderer struct {
	output io.Writer
	styles *styles.Registry
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{
		output: w,
		styles: styles.Default(),
	}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.Report:
		return r.renderReport(v)
	case display.Report:
		return r.renderReport(&v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderReport(report *display.Report) error {
	mark, status := "✓", r.styles.Render("Success", report.Status())
	if !report.Success {
		mark, status = "✗", r.styles.Render("Error", report.Status())
	}

	header := fmt.Sprintf("%s %s", mark, status)
	if report.Command != "" {
		header += " " + r.styles.Render("Command", report.Command)
	}
	if _, err := fmt.Fprintln(r.output, header); err != nil {
		return err
	}

	for _, field := range report.Fields() {
		line := r.styles.Render("Label", field.Label) + r.styles.Render("Value", field.Value)
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, r.styles.Render("Error", "Error:")+" "+err.Error())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, r.styles.Render("Info", msg))
	return err
}
