// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/style"
	"github.com/solitary-project/forge/pkg/ui/display"
)

// Renderer provides rich terminal output using lipgloss and pterm styles
type Renderer struct {
	output io.Writer
	markup *style.MarkupParser
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w, markup: style.NewMarkupParser()}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	view, ok := display.FromResult(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
	_, err := io.WriteString(r.output, r.render(view))
	return err
}

func (r *Renderer) render(v *display.View) string {
	var b strings.Builder
	title := style.TitleStyle.Render(v.Title)
	if v.DryRun {
		title += " " + style.WarningStyle.Render("(dry run)")
	}
	b.WriteString(title + "\n\n")

	for _, s := range v.Sections {
		b.WriteString(style.Indicator(s.Status()) + " " + style.SubtitleStyle.Render(s.Title) + "\n")
		if len(s.Items) == 0 && s.Empty != "" {
			b.WriteString(style.Indent(style.MutedStyle.Render(s.Empty), 1) + "\n")
		}
		for _, it := range s.Items {
			b.WriteString(style.RenderItem(it.Status, it.Label, it.Detail) + "\n")
		}
		b.WriteString("\n")
	}
	if v.Summary != "" {
		b.WriteString(style.MutedStyle.Render(v.Summary) + "\n")
	}
	return b.String()
}

// RenderError renders an error in a box with its code and details
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	b.WriteString(style.ErrorStyle.Render("Error") + " " + err.Error())
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		b.WriteString("\n" + style.MutedStyle.Render(fmt.Sprintf("%s (%s)", code, errors.CategoryOf(err))))
	}
	for k, v := range errors.GetErrorDetails(err) {
		b.WriteString(fmt.Sprintf("\n%s: %v", style.MutedStyle.Render(k), v))
	}
	_, werr := fmt.Fprintln(r.output, style.BoxStyle.BorderForeground(style.ErrorColor).Render(b.String()))
	return werr
}

// RenderMessage renders a message with markup
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, r.markup.Render(msg))
	return err
}
