// pkg/render/endtoend_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: FakeSource, plugin resolver, context builder
// PURPOSE: Resolve a plugin from a remote and render a Dockerfile from it

package render_test

import (
	"testing"

	"github.com/solitary-project/forge/pkg/cache"
	"github.com/solitary-project/forge/pkg/filesystem"
	"github.com/solitary-project/forge/pkg/plugin"
	"github.com/solitary-project/forge/pkg/render"
	"github.com/solitary-project/forge/pkg/rendercontext"
	"github.com/solitary-project/forge/pkg/testutil"
	"github.com/solitary-project/forge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEnd_Dockerfile(t *testing.T) {
	fsys := filesystem.NewMemory()
	src := testutil.NewFakeSource(fsys)
	src.Remote("https://git.example/core.git").Push("main", testutil.PluginFiles(
		testutil.Manifest("core", "1.0.0"),
		map[string]string{"Dockerfile.j2": "FROM {{ variables.base_image }}"},
	))

	resolver := plugin.NewResolver(cache.New("/project/.forge_cache/plugins", fsys), src, fsys, plugin.AbortOnFirst)
	res, err := resolver.Resolve([]types.PluginSpec{{Name: "core", Source: "https://git.example/core.git", Version: "main"}})
	require.NoError(t, err)

	rctx, err := rendercontext.FromResolution(res, rendercontext.Input{
		Variables:   map[string]interface{}{"base_image": "nixos/nix:latest"},
		ProjectRoot: "/project",
		ConfigPath:  "/project/.forge.yml",
	})
	require.NoError(t, err)

	report, err := render.NewPipeline(fsys, res.Plugins).Run(
		[]types.RenderTask{{Template: "Dockerfile.j2", Output: "Dockerfile"}}, rctx, render.Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, "FROM nixos/nix:latest", string(report.Outputs()["Dockerfile"]))
}
