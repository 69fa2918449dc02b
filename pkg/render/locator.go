package render

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/types"
)

// Location is where a template reference was found.
type Location struct {
	Ref    string
	Plugin string
	Path   string
}

// Locator finds templates across plugin templates directories.
type Locator struct {
	fs      types.FS
	plugins []*types.CachedPlugin
}

// NewLocator returns a Locator searching plugins in the given order.
// Plugins without a templates directory are skipped.
func NewLocator(fsys types.FS, plugins []*types.CachedPlugin) *Locator {
	withTemplates := make([]*types.CachedPlugin, 0, len(plugins))
	for _, p := range plugins {
		if p != nil && p.HasTemplates() {
			withTemplates = append(withTemplates, p)
		}
	}
	return &Locator{fs: fsys, plugins: withTemplates}
}

// Find returns the first location providing ref.
func (l *Locator) Find(ref string) (Location, error) {
	clean, err := cleanRef(ref)
	if err != nil {
		return Location{}, err
	}
	for _, p := range l.plugins {
		if loc, ok := l.lookup(p, clean); ok {
			loc.Ref = ref
			return loc, nil
		}
	}
	return Location{}, errors.Newf(errors.ErrTemplateNotFound, "template %q not found in any plugin", ref).
		WithDetail("template", ref).
		WithDetail("searched", l.searched())
}

// Candidates returns every location providing ref, winner first.
func (l *Locator) Candidates(ref string) []Location {
	clean, err := cleanRef(ref)
	if err != nil {
		return nil
	}
	var out []Location
	for _, p := range l.plugins {
		if loc, ok := l.lookup(p, clean); ok {
			loc.Ref = ref
			out = append(out, loc)
		}
	}
	return out
}

// Contains reports whether path lies inside one of the templates directories.
func (l *Locator) Contains(p string) bool {
	p = filepath.Clean(p)
	for _, plugin := range l.plugins {
		root := filepath.Clean(plugin.TemplatesPath)
		if strings.HasPrefix(p, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (l *Locator) lookup(p *types.CachedPlugin, clean string) (Location, bool) {
	full := filepath.Join(p.TemplatesPath, filepath.FromSlash(clean))
	info, err := l.fs.Stat(full)
	if err != nil || info.IsDir() {
		return Location{}, false
	}
	return Location{Plugin: p.Name, Path: full}, true
}

func (l *Locator) searched() []string {
	names := make([]string, len(l.plugins))
	for i, p := range l.plugins {
		names[i] = p.Name
	}
	return names
}

// cleanRef normalizes a template reference. References are slash-separated,
// relative, and may not leave the templates directory.
func cleanRef(ref string) (string, error) {
	slashed := strings.ReplaceAll(ref, "\\", "/")
	clean := path.Clean(slashed)
	switch {
	case strings.TrimSpace(ref) == "":
		return "", errors.New(errors.ErrTemplateNotFound, "empty template reference")
	case path.IsAbs(slashed) || filepath.IsAbs(ref):
		return "", errors.Newf(errors.ErrTemplateNotFound, "template reference %q must be relative", ref).
			WithDetail("template", ref)
	case clean == "." || clean == ".." || strings.HasPrefix(clean, "../"):
		return "", errors.Newf(errors.ErrTemplateNotFound, "template reference %q escapes the templates directory", ref).
			WithDetail("template", ref)
	}
	return clean, nil
}
