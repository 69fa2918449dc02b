// pkg/ui/format_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: temp files, FORGE_OUTPUT_FORMAT
// PURPOSE: Test output format names, auto resolution and the renderers it selects

package ui_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/report"
	"github.com/solitary-project/forge/pkg/types"
	"github.com/solitary-project/forge/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBuild() *types.BuildResult {
	return &types.BuildResult{
		BuildID: "b-7",
		Plugins: []*types.CachedPlugin{{Name: "core", RequestedVersion: "v1.0.0", ResolvedVersion: "v1.0.0"}},
		Written: []types.WrittenFile{{Path: "Dockerfile", Template: "Dockerfile.j2", Plugin: "core", Written: true}},
	}
}

func TestParseFormat_AcceptsAliases(t *testing.T) {
	for input, want := range map[string]ui.Format{
		"":         ui.FormatAuto,
		"AUTO":     ui.FormatAuto,
		"terminal": ui.FormatTerminal,
		"plain":    ui.FormatText,
		" json ":   ui.FormatJSON,
	} {
		got, err := ui.ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseFormat_UnknownNameIsInvalidInput(t *testing.T) {
	_, err := ui.ParseFormat("yaml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.True(t, errors.IsConfigError(err))
	assert.Equal(t, "yaml", errors.GetErrorDetails(err)["format"])
}

func TestResolve_ExplicitFormatIgnoresEnvironment(t *testing.T) {
	t.Setenv(ui.EnvOutputFormat, "json")

	got, err := ui.Resolve(ui.FormatText, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ui.FormatText, got)
}

func TestResolve_EnvironmentSelectsAutoFormat(t *testing.T) {
	t.Setenv(ui.EnvOutputFormat, "json")

	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatAuto, buf)
	require.NoError(t, err)
	require.NoError(t, renderer.RenderResult(sampleBuild()))

	var doc report.Build
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "b-7", doc.BuildID)
}

func TestResolve_EnvironmentAutoFallsThrough(t *testing.T) {
	t.Setenv(ui.EnvOutputFormat, "auto")

	got, err := ui.Resolve(ui.FormatAuto, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ui.FormatTerminal, got)
}

func TestResolve_BadEnvironmentValue(t *testing.T) {
	t.Setenv(ui.EnvOutputFormat, "xml")

	renderer, err := ui.NewRenderer(ui.FormatAuto, &bytes.Buffer{})
	require.Error(t, err)
	assert.Nil(t, renderer)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, "xml", details["format"])
	assert.Equal(t, ui.EnvOutputFormat, details["env"])
}

func TestResolve_RedirectedFileGetsPlainText(t *testing.T) {
	t.Setenv(ui.EnvOutputFormat, "")

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := ui.Resolve(ui.FormatAuto, f)
	require.NoError(t, err)
	assert.Equal(t, ui.FormatText, got)

	renderer, err := ui.NewRenderer(ui.FormatAuto, f)
	require.NoError(t, err)
	require.NoError(t, renderer.RenderResult(sampleBuild()))

	want := &bytes.Buffer{}
	plain, err := ui.NewRenderer(ui.FormatText, want)
	require.NoError(t, err)
	require.NoError(t, plain.RenderResult(sampleBuild()))

	got2, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, want.String(), string(got2))
	assert.NotContains(t, string(got2), "\x1b[")
}

func TestDetectFormat_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, ui.FormatText, ui.DetectFormat(os.Stdout))
}
