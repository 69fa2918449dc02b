// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/report"
	"github.com/solitary-project/forge/pkg/style"
	"github.com/solitary-project/forge/pkg/types"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	output  io.Writer
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{
		output:  output,
		encoder: encoder,
	}, nil
}

// RenderResult renders any result type as JSON. Build and validation
// results use the report document so failures carry codes.
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.BuildResult:
		return r.encoder.Encode(report.FromBuild(v))
	case *types.ValidateResult:
		return r.encoder.Encode(report.FromValidate(v))
	}
	return r.encoder.Encode(result)
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	errorObj := map[string]interface{}{
		"error": err.Error(),
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		errorObj["code"] = string(code)
		errorObj["category"] = string(errors.CategoryOf(err))
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		errorObj["details"] = details
	}
	return r.encoder.Encode(errorObj)
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	messageObj := map[string]string{
		"message": style.Strip(msg),
	}
	return r.encoder.Encode(messageObj)
}
