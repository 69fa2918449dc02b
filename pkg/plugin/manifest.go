package plugin

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/types"
	"gopkg.in/yaml.v3"
)

// ManifestFiles are the manifest names looked for at a plugin root, in order.
var ManifestFiles = []string{"plugin.yml", "plugin.yaml", "plugin.toml"}

// TemplatesDir is the directory holding a plugin's templates.
const TemplatesDir = "templates"

// LoadManifest reads the manifest in dir. A plugin without one yields nil.
func LoadManifest(fsys types.FS, dir string) (*types.Manifest, error) {
	for _, name := range ManifestFiles {
		path := filepath.Join(dir, name)
		data, err := fsys.ReadFile(path)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrPluginManifest, "cannot read %s", path).WithDetail("path", path)
		}
		return ParseManifest(data, path)
	}
	return nil, nil
}

// ParseManifest decodes manifest content. The format follows the file
// extension of path. Unknown fields are ignored; name and version are required.
func ParseManifest(data []byte, path string) (*types.Manifest, error) {
	var m types.Manifest
	var err error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginManifest, "invalid plugin manifest %s", path).WithDetail("path", path)
	}

	m.Name = strings.TrimSpace(m.Name)
	m.Version = strings.TrimSpace(m.Version)
	var missing []string
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Version == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.ErrPluginManifest, "plugin manifest %s is missing %s", path, strings.Join(missing, " and ")).
			WithDetail("path", path)
	}
	return &m, nil
}
