// Package report renders build and validation results for machines: a
// stable JSON document and JUnit XML for CI systems.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/types"
)

// Formats
const (
	FormatJSON  = "json"
	FormatJUnit = "junit"
)

// ParseFormat validates a report format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatJUnit, "xml":
		return FormatJUnit, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown report format %q (want json or junit)", s)
}

// Failure is a failed item in a report.
type Failure struct {
	Name     string `json:"name"`
	Template string `json:"template,omitempty"`
	Output   string `json:"output,omitempty"`
	Code     string `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// PluginEntry is a resolved plugin in a report.
type PluginEntry struct {
	Name      string `json:"name"`
	Requested string `json:"requested"`
	Revision  string `json:"revision"`
}

// Build is the JSON shape of a build result.
type Build struct {
	BuildID        string              `json:"buildId"`
	OK             bool                `json:"ok"`
	ProjectRoot    string              `json:"projectRoot"`
	Environment    string              `json:"environment,omitempty"`
	DryRun         bool                `json:"dryRun"`
	DurationMS     int64               `json:"durationMs"`
	Plugins        []PluginEntry       `json:"plugins"`
	Written        []types.WrittenFile `json:"written"`
	PluginFailures []Failure           `json:"pluginFailures"`
	RenderFailures []Failure           `json:"renderFailures"`
}

// Validate is the JSON shape of a validation result.
type Validate struct {
	ProjectRoot string          `json:"projectRoot"`
	Valid       bool            `json:"valid"`
	Errors      []types.Finding `json:"errors"`
	Warnings    []types.Finding `json:"warnings"`
}

// FromBuild converts a build result.
func FromBuild(r *types.BuildResult) *Build {
	b := &Build{
		BuildID:        r.BuildID,
		OK:             r.OK(),
		ProjectRoot:    r.ProjectRoot,
		Environment:    r.Environment,
		DryRun:         r.DryRun,
		DurationMS:     r.Duration.Milliseconds(),
		Plugins:        make([]PluginEntry, 0, len(r.Plugins)),
		Written:        append([]types.WrittenFile{}, r.Written...),
		PluginFailures: make([]Failure, 0, len(r.PluginFailures)),
		RenderFailures: make([]Failure, 0, len(r.RenderFailures)),
	}
	for _, p := range r.Plugins {
		b.Plugins = append(b.Plugins, PluginEntry{Name: p.Name, Requested: p.RequestedVersion, Revision: p.ResolvedVersion})
	}
	for _, f := range r.PluginFailures {
		b.PluginFailures = append(b.PluginFailures, failure(f.Name, f.Err))
	}
	for _, f := range r.RenderFailures {
		entry := failure(f.Task.Output, f.Err)
		entry.Template = f.Task.Template
		entry.Output = f.Task.Output
		b.RenderFailures = append(b.RenderFailures, entry)
	}
	return b
}

// FromValidate converts a validation result.
func FromValidate(r *types.ValidateResult) *Validate {
	return &Validate{
		ProjectRoot: r.ProjectRoot,
		Valid:       r.Valid(),
		Errors:      append([]types.Finding{}, r.Errors()...),
		Warnings:    append([]types.Finding{}, r.Warnings()...),
	}
}

func failure(name string, err error) Failure {
	f := Failure{
		Name:     name,
		Code:     string(errors.GetErrorCode(err)),
		Category: string(errors.CategoryOf(err)),
	}
	if err != nil {
		f.Message = err.Error()
	}
	return f
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Write renders a build or validation result in format.
func Write(w io.Writer, format string, result interface{}) error {
	switch format {
	case FormatJSON:
		switch r := result.(type) {
		case *types.BuildResult:
			return WriteJSON(w, FromBuild(r))
		case *types.ValidateResult:
			return WriteJSON(w, FromValidate(r))
		}
	case FormatJUnit:
		switch r := result.(type) {
		case *types.BuildResult:
			return WriteJUnit(w, BuildJUnit(r))
		case *types.ValidateResult:
			return WriteJUnit(w, ValidateJUnit(r))
		}
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown report format %q", format)
	}
	return errors.Newf(errors.ErrInternal, "cannot report %T", result)
}

// WriteFile writes a report to path. An empty format is taken from the
// file extension: .xml means junit, anything else json.
func WriteFile(path, format string, result interface{}) error {
	if format == "" {
		format = FormatJSON
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			format = FormatJUnit
		}
	}
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrOutputWrite, "cannot create report %s", path).
			WithDetail("path", path)
	}
	if err := Write(f, format, result); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrOutputWrite, "cannot write report %s", path).
			WithDetail("path", path)
	}
	return nil
}
