// pkg/commands/clean/clean_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: testutil.Project, FakeSource
// PURPOSE: Test removing single plugins and the whole cache

package clean_test

import (
	"testing"

	"github.com/solitary-project/forge/pkg/commands/build"
	"github.com/solitary-project/forge/pkg/commands/clean"
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtProject(t *testing.T) (*testutil.Project, core.Options) {
	t.Helper()
	p := testutil.NewDefaultProject(t)
	opts := core.Options{StartDir: p.Root, Source: p.Source}
	_, err := build.Build(build.BuildOptions{Workspace: opts})
	require.NoError(t, err)
	require.DirExists(t, p.Path(".forge_cache/plugins/core"))
	return p, opts
}

func TestClean_SinglePlugin(t *testing.T) {
	p, opts := builtProject(t)

	result, err := clean.Clean(clean.CleanOptions{Workspace: opts, Plugin: "core"})
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, result.Removed)
	assert.False(t, result.All)
	assert.NoDirExists(t, p.Path(".forge_cache/plugins/core"))
	assert.DirExists(t, p.Path(".forge_cache/plugins"))
}

func TestClean_UnknownPluginIsNoop(t *testing.T) {
	_, opts := builtProject(t)

	result, err := clean.Clean(clean.CleanOptions{Workspace: opts, Plugin: "other"})
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
}

func TestClean_All(t *testing.T) {
	p, opts := builtProject(t)

	result, err := clean.Clean(clean.CleanOptions{Workspace: opts})
	require.NoError(t, err)
	assert.True(t, result.All)
	assert.Equal(t, []string{"core"}, result.Removed)
	assert.NoDirExists(t, p.Path(".forge_cache/plugins"))
}
