// pkg/render/pipeline_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: afero in-memory filesystem, pongo2
// PURPOSE: Test template lookup order, batch resilience and strict mode

package render_test

import (
	"path"
	"testing"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/filesystem"
	"github.com/solitary-project/forge/pkg/render"
	"github.com/solitary-project/forge/pkg/rendercontext"
	"github.com/solitary-project/forge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installPlugin writes templates for a plugin and returns it.
func installPlugin(t *testing.T, fsys types.FS, name string, templates map[string]string) *types.CachedPlugin {
	t.Helper()
	root := "/cache/" + name
	for rel, content := range templates {
		full := path.Join(root, "templates", rel)
		require.NoError(t, fsys.MkdirAll(path.Dir(full), 0755))
		require.NoError(t, fsys.WriteFile(full, []byte(content), 0644))
	}
	return &types.CachedPlugin{Name: name, LocalPath: root, TemplatesPath: root + "/templates"}
}

func contextFor(t *testing.T, vars map[string]interface{}, plugins ...*types.CachedPlugin) *types.RenderContext {
	t.Helper()
	rctx, err := rendercontext.Build(rendercontext.Input{
		Variables:   vars,
		Plugins:     plugins,
		ProjectRoot: "/project",
		ConfigPath:  "/project/.forge.yml",
	})
	require.NoError(t, err)
	return rctx
}

func TestRun_FirstDeclaredPluginWins(t *testing.T) {
	fsys := filesystem.NewMemory()
	a := installPlugin(t, fsys, "a", map[string]string{"x.j2": "from a"})
	b := installPlugin(t, fsys, "b", map[string]string{"x.j2": "from b", "y.j2": "only b"})

	p := render.NewPipeline(fsys, []*types.CachedPlugin{a, b})
	report, err := p.Run([]types.RenderTask{
		{Template: "x.j2", Output: "x"},
		{Template: "y.j2", Output: "y"},
	}, contextFor(t, nil, a, b), render.Options{})
	require.NoError(t, err)
	require.True(t, report.OK())

	out := report.Outputs()
	assert.Equal(t, "from a", string(out["x"]))
	assert.Equal(t, "only b", string(out["y"]))
	assert.Equal(t, "a", report.Rendered[0].Plugin)
	assert.Equal(t, "b", report.Rendered[1].Plugin)

	// Reversing declaration order flips the winner.
	p = render.NewPipeline(fsys, []*types.CachedPlugin{b, a})
	report, err = p.Run([]types.RenderTask{{Template: "x.j2", Output: "x"}}, contextFor(t, nil, b, a), render.Options{})
	require.NoError(t, err)
	assert.Equal(t, "from b", string(report.Outputs()["x"]))
}

func TestRun_BatchResilience(t *testing.T) {
	fsys := filesystem.NewMemory()
	core := installPlugin(t, fsys, "core", map[string]string{
		"one.j2":   "one {{ variables.n }}",
		"three.j2": "three",
	})
	tasks := []types.RenderTask{
		{Template: "one.j2", Output: "one"},
		{Template: "missing.j2", Output: "two"},
		{Template: "three.j2", Output: "three"},
	}
	rctx := contextFor(t, map[string]interface{}{"n": 1}, core)

	t.Run("collects failures", func(t *testing.T) {
		report, err := render.NewPipeline(fsys, []*types.CachedPlugin{core}).Run(tasks, rctx, render.Options{})
		require.NoError(t, err)

		require.Len(t, report.Rendered, 2)
		assert.Equal(t, "one 1", string(report.Outputs()["one"]))
		assert.Equal(t, "three", string(report.Outputs()["three"]))

		require.Len(t, report.Failures, 1)
		assert.Equal(t, "missing.j2", report.Failures[0].Task.Template)
		assert.True(t, errors.IsErrorCode(report.Failures[0].Err, errors.ErrTemplateNotFound))
		assert.False(t, report.OK())
	})

	t.Run("strict aborts", func(t *testing.T) {
		report, err := render.NewPipeline(fsys, []*types.CachedPlugin{core}).Run(tasks, rctx, render.Options{Strict: true})
		require.Error(t, err)
		assert.Nil(t, report)
		assert.True(t, errors.IsTemplateError(err))
		assert.Equal(t, "two", errors.GetErrorDetails(err)["output"])
	})
}

func TestRun_RenderErrorIsTemplateError(t *testing.T) {
	fsys := filesystem.NewMemory()
	core := installPlugin(t, fsys, "core", map[string]string{"bad.j2": "{% if %}"})

	report, err := render.NewPipeline(fsys, []*types.CachedPlugin{core}).
		Run([]types.RenderTask{{Template: "bad.j2", Output: "bad"}}, contextFor(t, nil, core), render.Options{})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.True(t, errors.IsErrorCode(report.Failures[0].Err, errors.ErrTemplateRender))
}

func TestRun_ContextData(t *testing.T) {
	fsys := filesystem.NewMemory()
	core := installPlugin(t, fsys, "core", map[string]string{
		"info.j2": "{{ project_root }}|{{ plugins.core.path }}|{{ plugins.core.config.shell }}",
	})
	core.Config = map[string]interface{}{"shell": "zsh"}

	report, err := render.NewPipeline(fsys, []*types.CachedPlugin{core}).
		Run([]types.RenderTask{{Template: "info.j2", Output: "info"}}, contextFor(t, nil, core), render.Options{})
	require.NoError(t, err)
	assert.Equal(t, "/project|/cache/core|zsh", string(report.Outputs()["info"]))
}

func TestRun_IncludeUsesPluginOrder(t *testing.T) {
	fsys := filesystem.NewMemory()
	site := installPlugin(t, fsys, "site", map[string]string{"partials/header.j2": "site header"})
	core := installPlugin(t, fsys, "core", map[string]string{
		"page.j2":            `{% include "partials/header.j2" %}`,
		"partials/header.j2": "core header",
	})

	report, err := render.NewPipeline(fsys, []*types.CachedPlugin{site, core}).
		Run([]types.RenderTask{{Template: "page.j2", Output: "page"}}, contextFor(t, nil, site, core), render.Options{})
	require.NoError(t, err)
	require.True(t, report.OK(), "%v", report.Failures)
	assert.Equal(t, "site header", string(report.Outputs()["page"]))
}

func TestLocator(t *testing.T) {
	fsys := filesystem.NewMemory()
	a := installPlugin(t, fsys, "a", map[string]string{"x.j2": "a", "dir/y.j2": "a"})
	b := installPlugin(t, fsys, "b", map[string]string{"x.j2": "b"})
	none := &types.CachedPlugin{Name: "none", LocalPath: "/cache/none"}
	locator := render.NewLocator(fsys, []*types.CachedPlugin{none, a, b})

	loc, err := locator.Find("x.j2")
	require.NoError(t, err)
	assert.Equal(t, "a", loc.Plugin)
	assert.Equal(t, "/cache/a/templates/x.j2", loc.Path)

	loc, err = locator.Find("./dir/y.j2")
	require.NoError(t, err)
	assert.Equal(t, "a", loc.Plugin)

	candidates := locator.Candidates("x.j2")
	require.Len(t, candidates, 2)
	assert.Equal(t, "b", candidates[1].Plugin)

	require.NoError(t, fsys.WriteFile("/cache/a/root.j2", []byte("root"), 0644))
	_, err = locator.Find("root.j2")
	assert.True(t, errors.IsTemplateError(err), "plugin root is not searched")

	for _, ref := range []string{"", "/etc/passwd", "../a/templates/x.j2", "dir/../../x.j2", "dir"} {
		_, err := locator.Find(ref)
		assert.True(t, errors.IsTemplateError(err), "ref %q", ref)
	}
}
