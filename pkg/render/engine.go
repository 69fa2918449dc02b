package render

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/flosch/pongo2/v6"
	"github.com/solitary-project/forge/pkg/errors"
)

// Engine renders a located template against context data.
type Engine interface {
	Render(loc Location, data map[string]interface{}) ([]byte, error)
}

// Pongo2Engine renders Jinja-style templates with pongo2. Includes and
// extends resolve through the same Locator as top-level templates.
type Pongo2Engine struct {
	set *pongo2.TemplateSet
}

// NewPongo2Engine returns an engine loading templates through locator.
func NewPongo2Engine(locator *Locator) *Pongo2Engine {
	set := pongo2.NewSet("forge", &pluginLoader{locator: locator})
	set.Options = &pongo2.Options{TrimBlocks: true, LStripBlocks: true}
	return &Pongo2Engine{set: set}
}

// Render implements Engine.
func (e *Pongo2Engine) Render(loc Location, data map[string]interface{}) ([]byte, error) {
	tpl, err := e.set.FromFile(loc.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRender, "cannot parse template %s", loc.Ref)
	}
	out, err := tpl.ExecuteBytes(pongo2.Context(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRender, "cannot render template %s", loc.Ref)
	}
	return out, nil
}

// pluginLoader adapts a Locator to pongo2.TemplateLoader. Relative names
// are looked up in plugin order regardless of the including template.
type pluginLoader struct {
	locator *Locator
}

func (l *pluginLoader) Abs(base, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if loc, err := l.locator.Find(name); err == nil {
		return loc.Path
	}
	return name
}

func (l *pluginLoader) Get(path string) (io.Reader, error) {
	if !filepath.IsAbs(path) || !l.locator.Contains(path) {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "template %q not found in any plugin", path).
			WithDetail("template", path)
	}
	data, err := l.locator.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "cannot read template %s", path)
	}
	return bytes.NewReader(data), nil
}
