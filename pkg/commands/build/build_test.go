// pkg/commands/build/build_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: testutil.Project, FakeSource
// PURPOSE: Test the build command and its report output

package build_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/solitary-project/forge/pkg/commands/build"
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/report"
	"github.com/solitary-project/forge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	p := testutil.NewDefaultProject(t)

	result, err := build.Build(build.BuildOptions{
		Workspace: core.Options{StartDir: p.Root, Source: p.Source},
	})
	require.NoError(t, err)

	assert.True(t, result.OK())
	require.Len(t, result.Written, 1)
	assert.Equal(t, "FROM nixos/nix:latest\n", p.Read(t, "Dockerfile"))
	assert.Equal(t, 0, p.Source.Fetches, "a tag present after clone needs no fetch")
}

func TestBuild_WritesReport(t *testing.T) {
	p := testutil.NewDefaultProject(t)
	reportPath := p.Path("build-report.json")

	_, err := build.Build(build.BuildOptions{
		Workspace:  core.Options{StartDir: p.Root, Source: p.Source},
		DryRun:     true,
		ReportFile: reportPath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var got report.Build
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.DryRun)
	assert.NoFileExists(t, p.Path("Dockerfile"))
}

func TestBuild_UnknownVersion(t *testing.T) {
	p := testutil.NewProject(t, `plugins:
  - name: core
    git: https://git.example/core.git
    version: v9.9.9
render:
  - template: Dockerfile.j2
    output: Dockerfile
`)
	p.Source.Remote("https://git.example/core.git").Push("main", testutil.PluginFiles("", nil))

	_, err := build.Build(build.BuildOptions{Workspace: core.Options{StartDir: p.Root, Source: p.Source}})
	require.Error(t, err)
	assert.True(t, errors.IsGitError(err))
	assert.Equal(t, "core", errors.GetErrorDetails(err)["plugin"])
}
