// pkg/paths/paths_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: temp directories, environment variables
// PURPOSE: Test config discovery, cache root selection and output scoping

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("plugins: []\n"), 0644))
	return p
}

func TestNew_FindsConfigInParent(t *testing.T) {
	t.Setenv(paths.EnvConfig, "")
	t.Setenv(paths.EnvCacheDir, "")
	root := t.TempDir()
	cfg := writeConfig(t, root, ".forge.yml")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	p, err := paths.New(paths.Options{StartDir: nested})
	require.NoError(t, err)

	assert.True(t, p.ConfigFound())
	assert.Equal(t, cfg, p.ConfigPath())
	assert.Equal(t, root, p.ProjectRoot())
	assert.Equal(t, filepath.Join(root, ".forge_cache", "plugins"), p.CacheRoot())
}

func TestNew_NoConfigDefaultsToStartDir(t *testing.T) {
	t.Setenv(paths.EnvConfig, "")
	t.Setenv(paths.EnvCacheDir, "")
	root := t.TempDir()

	p, err := paths.New(paths.Options{StartDir: root})
	require.NoError(t, err)

	assert.False(t, p.ConfigFound())
	assert.Equal(t, filepath.Join(root, ".forge.yml"), p.ConfigPath())
}

func TestNew_ConfigPriority(t *testing.T) {
	t.Setenv(paths.EnvCacheDir, "")
	root := t.TempDir()
	toml := writeConfig(t, root, ".forge.toml")
	t.Setenv(paths.EnvConfig, toml)

	p, err := paths.New(paths.Options{})
	require.NoError(t, err)
	assert.Equal(t, toml, p.ConfigPath())

	other := writeConfig(t, t.TempDir(), "custom.yml")
	p, err = paths.New(paths.Options{ConfigPath: other})
	require.NoError(t, err)
	assert.Equal(t, other, p.ConfigPath(), "explicit option beats the environment")
}

func TestCacheRoot(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t, root, ".forge.yml")

	tests := []struct {
		name   string
		env    string
		opts   paths.Options
		expect string
	}{
		{
			name:   "default project local",
			opts:   paths.Options{ConfigPath: cfg},
			expect: filepath.Join(root, ".forge_cache", "plugins"),
		},
		{
			name:   "relative option",
			opts:   paths.Options{ConfigPath: cfg, CacheDir: "vendor/plugins"},
			expect: filepath.Join(root, "vendor", "plugins"),
		},
		{
			name:   "environment wins",
			env:    "/var/cache/forge",
			opts:   paths.Options{ConfigPath: cfg, CacheDir: "ignored"},
			expect: "/var/cache/forge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(paths.EnvCacheDir, tt.env)
			p, err := paths.New(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.expect), p.CacheRoot())
		})
	}
}

func TestCacheRoot_Shared(t *testing.T) {
	t.Setenv(paths.EnvCacheDir, "")
	root := t.TempDir()
	cfg := writeConfig(t, root, ".forge.yml")

	p, err := paths.New(paths.Options{ConfigPath: cfg, SharedCache: true})
	require.NoError(t, err)
	assert.Equal(t, p.SharedCacheRoot(), p.CacheRoot())
	assert.Equal(t, "plugins", filepath.Base(p.CacheRoot()))
}

func TestResolveOutput(t *testing.T) {
	t.Setenv(paths.EnvCacheDir, "")
	root := t.TempDir()
	cfg := writeConfig(t, root, ".forge.yml")
	p, err := paths.New(paths.Options{ConfigPath: cfg})
	require.NoError(t, err)

	got, err := p.ResolveOutput("docker/Dockerfile")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "docker", "Dockerfile"), got)

	for _, bad := range []string{"", "../outside", "/etc/passwd", "a/../../x", ".", "~/x"} {
		_, err := p.ResolveOutput(bad)
		assert.True(t, errors.IsErrorCode(err, errors.ErrOutputEscape), "expected escape error for %q", bad)
	}

	in, err := p.IsInProject("sub/file")
	require.NoError(t, err)
	assert.True(t, in)
	in, err = p.IsInProject("../elsewhere")
	require.NoError(t, err)
	assert.False(t, in)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, paths.ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "x"), paths.ExpandHome("~/x"))
	assert.Equal(t, "~other/x", paths.ExpandHome("~other/x"))
	assert.Equal(t, "/abs", paths.ExpandHome("/abs"))
}
