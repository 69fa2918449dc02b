// pkg/commands/listtemplates/listtemplates_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: testutil.Project, FakeSource
// PURPOSE: Test template listing and first-declared-wins reporting

package listtemplates_test

import (
	"testing"

	"github.com/solitary-project/forge/pkg/commands/listtemplates"
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTemplates(t *testing.T) {
	p := testutil.NewProject(t, `plugins:
  - name: base
    git: https://git.example/base.git
  - name: extras
    git: https://git.example/extras.git
render:
  - template: Dockerfile.j2
    output: Dockerfile
`)
	p.Source.Remote("https://git.example/base.git").Push("main", testutil.PluginFiles("",
		map[string]string{"Dockerfile.j2": "FROM base", "nix/flake.nix.j2": "{}"}))
	p.Source.Remote("https://git.example/extras.git").Push("main", testutil.PluginFiles("",
		map[string]string{"Dockerfile.j2": "FROM extras", "motd.j2": "hi", ".hidden": "x"}))

	result, err := listtemplates.ListTemplates(listtemplates.ListTemplatesOptions{
		Workspace: core.Options{StartDir: p.Root, Source: p.Source},
	})
	require.NoError(t, err)

	require.Len(t, result.Plugins, 2)
	assert.Equal(t, "base", result.Plugins[0].Plugin)
	assert.Equal(t, []string{"Dockerfile.j2", "nix/flake.nix.j2"}, result.Plugins[0].Templates)
	assert.Equal(t, []string{"Dockerfile.j2", "motd.j2"}, result.Plugins[1].Templates)

	assert.Equal(t, map[string]string{
		"Dockerfile.j2":    "base",
		"nix/flake.nix.j2": "base",
		"motd.j2":          "extras",
	}, result.Winners)
}
