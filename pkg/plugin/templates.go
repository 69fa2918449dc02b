package plugin

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/types"
)

// ListTemplates returns the template files of a plugin as slash-separated
// paths relative to its templates directory, sorted. Dot-files and
// dot-directories are skipped.
func ListTemplates(fsys types.FS, p *types.CachedPlugin) ([]string, error) {
	if !p.HasTemplates() {
		return []string{}, nil
	}
	var out []string
	if err := walk(fsys, p.TemplatesPath, "", &out); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginInvalid, "cannot list templates of %s", p.Name).
			WithDetail("plugin", p.Name)
	}
	sort.Strings(out)
	return out, nil
}

func walk(fsys types.FS, dir, rel string, out *[]string) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		childRel := e.Name()
		if rel != "" {
			childRel = rel + "/" + e.Name()
		}
		if e.IsDir() {
			if err := walk(fsys, filepath.Join(dir, e.Name()), childRel, out); err != nil {
				return err
			}
			continue
		}
		if e.Type().IsRegular() {
			*out = append(*out, childRel)
		}
	}
	return nil
}
