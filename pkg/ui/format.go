package ui

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/solitary-project/forge/pkg/errors"
)

// EnvOutputFormat picks the format used when the caller asks for auto.
const EnvOutputFormat = "FORGE_OUTPUT_FORMAT"

// Format selects how build, validate and listing results are printed.
type Format int

const (
	// FormatAuto picks a format from FORGE_OUTPUT_FORMAT, NO_COLOR and the
	// output stream
	FormatAuto Format = iota
	// FormatTerminal prints styled output with colored statuses
	FormatTerminal
	// FormatText prints the same layout without styling
	FormatText
	// FormatJSON prints the report documents
	FormatJSON
)

var formatNames = map[string]Format{
	"auto":     FormatAuto,
	"":         FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
}

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat maps a --output-format value to a Format. Unknown names are
// INVALID_INPUT errors carrying the rejected value.
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown output format %q (want auto, term, text or json)", s).
			WithDetail("format", s)
	}
	return f, nil
}

// Resolve turns FormatAuto into a concrete format for output. An explicit
// format is returned unchanged.
//
// Auto consults FORGE_OUTPUT_FORMAT first. Without it, files get
// DetectFormat and any other writer gets the terminal format.
func Resolve(format Format, output io.Writer) (Format, error) {
	if format != FormatAuto {
		return format, nil
	}
	if name := os.Getenv(EnvOutputFormat); name != "" {
		f, err := ParseFormat(name)
		if err != nil {
			return FormatAuto, errors.Wrapf(err, errors.ErrInvalidInput, "invalid $%s", EnvOutputFormat).
				WithDetail("format", name).
				WithDetail("env", EnvOutputFormat)
		}
		if f != FormatAuto {
			return f, nil
		}
	}
	if file, ok := output.(*os.File); ok {
		return DetectFormat(file), nil
	}
	return FormatTerminal, nil
}

// DetectFormat chooses between terminal and text for a file. NO_COLOR,
// a pipe or redirect, and a colorless terminal all give text.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
