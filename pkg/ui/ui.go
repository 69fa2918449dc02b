// Package ui prints forge results in one of three formats: styled terminal
// output, plain text, or the JSON report documents.
package ui

import (
	"io"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/ui/json"
	"github.com/solitary-project/forge/pkg/ui/terminal"
	"github.com/solitary-project/forge/pkg/ui/text"
)

// Renderer prints command results, errors and one-line messages.
type Renderer interface {
	// RenderResult prints a *types.BuildResult, *types.ValidateResult or
	// listing. Other values are printed as-is.
	RenderResult(result interface{}) error

	// RenderError prints err with its code and details when it has them.
	RenderError(err error) error

	// RenderMessage prints msg, applying or stripping style markup.
	RenderMessage(msg string) error
}

// NewRenderer returns the renderer for format, resolving FormatAuto
// against the environment and output first.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	format, err := Resolve(format, output)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown output format %v", format).
			WithDetail("format", format.String())
	}
}
