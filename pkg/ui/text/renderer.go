// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/solitary-project/forge/pkg/style"
	"github.com/solitary-project/forge/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	view, ok := display.FromResult(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
	_, err := io.WriteString(r.output, Render(view))
	return err
}

// Render lays out a view as plain text.
func Render(v *display.View) string {
	var b strings.Builder
	b.WriteString(v.Title)
	if v.DryRun {
		b.WriteString(" (dry run)")
	}
	b.WriteString("\n")

	for _, s := range v.Sections {
		fmt.Fprintf(&b, "%s:\n", s.Title)
		if len(s.Items) == 0 && s.Empty != "" {
			fmt.Fprintf(&b, "    %s\n", s.Empty)
		}
		for _, it := range s.Items {
			fmt.Fprintf(&b, "    %-9s %s", it.Status, it.Label)
			if it.Detail != "" {
				fmt.Fprintf(&b, "  (%s)", it.Detail)
			}
			b.WriteString("\n")
		}
	}
	if v.Summary != "" {
		b.WriteString(v.Summary + "\n")
	}
	return b.String()
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message. Markup tags are stripped.
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.Strip(msg))
	return err
}
