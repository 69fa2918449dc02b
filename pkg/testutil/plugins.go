// pkg/testutil/plugins.go
// DEPENDENCIES: None
// PURPOSE: Build plugin file trees for fake and real remotes

package testutil

import "fmt"

// PluginFiles returns a plugin tree: an optional manifest and templates
// placed under templates/.
func PluginFiles(manifest string, templates map[string]string) map[string]string {
	files := make(map[string]string, len(templates)+1)
	if manifest != "" {
		files["plugin.yml"] = manifest
	}
	for name, content := range templates {
		files["templates/"+name] = content
	}
	return files
}

// Manifest returns plugin.yml content for name and version.
func Manifest(name, version string, deps ...string) string {
	out := fmt.Sprintf("name: %s\nversion: %s\ndescription: %s plugin\n", name, version, name)
	if len(deps) > 0 {
		out += "dependencies:\n"
		for _, d := range deps {
			out += "  - " + d + "\n"
		}
	}
	return out
}
