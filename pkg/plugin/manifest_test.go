package plugin_test

import (
	"testing"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	m, err := plugin.ParseManifest([]byte(`
name: core
version: 1.2.0
description: Core templates
dependencies: [base]
homepage: https://ignored.example
`), "plugin.yml")
	require.NoError(t, err)
	assert.Equal(t, "core", m.Name)
	assert.Equal(t, []string{"base"}, m.Dependencies)

	m, err = plugin.ParseManifest([]byte("name = \"nix\"\nversion = \"0.1.0\"\n"), "plugin.toml")
	require.NoError(t, err)
	assert.Equal(t, "nix", m.Name)

	_, err = plugin.ParseManifest([]byte("description: nothing else\n"), "plugin.yml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginManifest))
	assert.Contains(t, err.Error(), "name and version")
}
