// pkg/commands/initialize/init_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: temp dirs
// PURPOSE: Test starter configuration generation

package initialize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solitary-project/forge/pkg/commands/initialize"
	"github.com/solitary-project/forge/pkg/config"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name   string
		format string
		file   string
	}{
		{"default_yaml", "", ".forge.yml"},
		{"toml", "toml", ".forge.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "myproject")
			result, err := initialize.Init(initialize.InitOptions{Dir: dir, Format: tt.format})
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, tt.file), result.ConfigPath)
			assert.False(t, result.Overwrote)

			cfg, err := config.Load(result.ConfigPath)
			require.NoError(t, err)
			assert.Equal(t, "myproject", cfg.Variables["project_name"])
			assert.Equal(t, config.DefaultPluginName, cfg.Plugins[0].Name)
		})
	}
}

func TestInit_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, ".forge.yml")
	require.NoError(t, os.WriteFile(existing, []byte("plugins: []\n"), 0644))

	_, err := initialize.Init(initialize.InitOptions{Dir: dir})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	result, err := initialize.Init(initialize.InitOptions{Dir: dir, Force: true})
	require.NoError(t, err)
	assert.True(t, result.Overwrote)

	_, err = config.Load(existing)
	assert.NoError(t, err)
}

func TestInit_UnknownFormat(t *testing.T) {
	_, err := initialize.Init(initialize.InitOptions{Dir: t.TempDir(), Format: "json"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
