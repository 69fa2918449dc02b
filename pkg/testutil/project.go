// pkg/testutil/project.go
// DEPENDENCIES: pkg/filesystem, FakeSource
// PURPOSE: Temporary forge projects backed by a FakeSource for command tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solitary-project/forge/pkg/filesystem"
	"github.com/stretchr/testify/require"
)

// DefaultProjectConfig declares one plugin, "core", rendering a Dockerfile.
const DefaultProjectConfig = `variables:
  project_name: demo
  base_image: nixos/nix:latest
plugins:
  - name: core
    git: https://git.example/core.git
    version: v1.0.0
render:
  - template: Dockerfile.j2
    output: Dockerfile
`

// Project is a project directory on disk whose plugins come from a
// FakeSource writing to the OS filesystem.
type Project struct {
	Root   string
	Source *FakeSource
}

// NewProject writes config as .forge.yml into a temporary directory.
func NewProject(t *testing.T, config string) *Project {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".forge.yml"), []byte(config), 0644))
	return &Project{Root: root, Source: NewFakeSource(filesystem.NewOS())}
}

// NewDefaultProject returns a project using DefaultProjectConfig with the
// core plugin published at tag v1.0.0.
func NewDefaultProject(t *testing.T) *Project {
	t.Helper()
	p := NewProject(t, DefaultProjectConfig)
	remote := p.Source.Remote("https://git.example/core.git")
	id := remote.Push("main", PluginFiles(
		Manifest("core", "1.0.0"),
		map[string]string{
			"Dockerfile.j2":         "FROM {{ variables.base_image }}\n",
			"docker-compose.yml.j2": "services: {}\n",
		},
	))
	remote.SetTag("v1.0.0", id)
	return p
}

// Path joins rel onto the project root.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Read returns the content of a project file.
func (p *Project) Read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(p.Path(rel))
	require.NoError(t, err)
	return string(data)
}
