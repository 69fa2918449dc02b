// pkg/commands/listplugins/listplugins_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: testutil.Project, FakeSource
// PURPOSE: Test listing cached plugin directories

package listplugins_test

import (
	"os"
	"testing"

	"github.com/solitary-project/forge/pkg/commands/build"
	"github.com/solitary-project/forge/pkg/commands/listplugins"
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPlugins_EmptyCache(t *testing.T) {
	p := testutil.NewDefaultProject(t)

	result, err := listplugins.ListPlugins(listplugins.ListPluginsOptions{
		Workspace: core.Options{StartDir: p.Root, Source: p.Source},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Plugins)
	assert.Equal(t, p.Path(".forge_cache/plugins"), result.CacheRoot)
}

func TestListPlugins_MarksCheckouts(t *testing.T) {
	p := testutil.NewDefaultProject(t)
	opts := core.Options{StartDir: p.Root, Source: p.Source}
	_, err := build.Build(build.BuildOptions{Workspace: opts})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(p.Path(".forge_cache/plugins/stray"), 0755))

	result, err := listplugins.ListPlugins(listplugins.ListPluginsOptions{Workspace: opts})
	require.NoError(t, err)
	require.Len(t, result.Plugins, 2)

	assert.Equal(t, "core", result.Plugins[0].Name)
	assert.True(t, result.Plugins[0].IsGit)
	assert.Len(t, result.Plugins[0].Revision, 40)

	assert.Equal(t, "stray", result.Plugins[1].Name)
	assert.False(t, result.Plugins[1].IsGit)
	assert.Empty(t, result.Plugins[1].Revision)
}
