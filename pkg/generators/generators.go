// Package generators post-processes rendered files by type and contributes
// file-type validators. A generator is picked by template name: Dockerfiles,
// compose files and Nix expressions each have one.
package generators

import (
	"fmt"
	"path"
	"strings"

	"github.com/solitary-project/forge/pkg/registry"
	"github.com/solitary-project/forge/pkg/validation"
)

// File types
const (
	TypeDockerfile = "dockerfile"
	TypeCompose    = "compose"
	TypeDevenvNix  = "devenv_nix"
	TypeFlakeNix   = "flake_nix"
	TypeHomeNix    = "home_nix"
)

// Generator post-processes rendered content of one file type.
type Generator interface {
	FileType() string

	// PostProcess rewrites rendered content. data is the render context.
	PostProcess(content []byte, data map[string]interface{}) ([]byte, error)

	// Validator returns the file-type validator, or nil.
	Validator() validation.Validator
}

// Factory creates a generator.
type Factory func() Generator

type rule struct {
	fileType string
	match    func(template string) bool
}

// Registry maps file types to generator factories and template names to
// file types.
type Registry struct {
	factories registry.Registry[Factory]
	rules     []rule
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: registry.New[Factory]()}
}

// Register adds a factory and the rule detecting its templates. Rules are
// tried in registration order.
func (r *Registry) Register(fileType string, match func(template string) bool, factory Factory) error {
	if err := r.factories.Register(fileType, factory); err != nil {
		return err
	}
	r.rules = append(r.rules, rule{fileType: fileType, match: match})
	return nil
}

// Types returns the registered file types.
func (r *Registry) Types() []string {
	return r.factories.List()
}

// Create returns a new generator for fileType.
func (r *Registry) Create(fileType string) (Generator, error) {
	factory, err := r.factories.Get(fileType)
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

// Detect returns the generator for a template name, if any.
func (r *Registry) Detect(template string) (Generator, bool) {
	for _, rule := range r.rules {
		if rule.match(template) {
			g, err := r.Create(rule.fileType)
			if err != nil {
				return nil, false
			}
			return g, true
		}
	}
	return nil, false
}

// DetectAll returns one generator per distinct file type found among
// templates, in first-seen order.
func (r *Registry) DetectAll(templates []string) []Generator {
	seen := map[string]bool{}
	var out []Generator
	for _, t := range templates {
		g, ok := r.Detect(t)
		if !ok || seen[g.FileType()] {
			continue
		}
		seen[g.FileType()] = true
		out = append(out, g)
	}
	return out
}

// Default returns a registry with the built-in generators.
func Default() *Registry {
	r := NewRegistry()
	r.mustRegister(TypeDockerfile, isDockerfile, func() Generator { return NewDockerfile() })
	r.mustRegister(TypeCompose, isCompose, func() Generator { return NewCompose() })
	r.mustRegister(TypeDevenvNix, hasSuffix("devenv.nix.j2"), func() Generator { return NewNix(TypeDevenvNix, true) })
	r.mustRegister(TypeFlakeNix, hasSuffix("flake.nix.j2"), func() Generator { return NewNix(TypeFlakeNix, false) })
	r.mustRegister(TypeHomeNix, hasSuffix("home.nix.j2"), func() Generator { return NewNix(TypeHomeNix, false) })
	return r
}

func (r *Registry) mustRegister(fileType string, match func(string) bool, factory Factory) {
	if err := r.Register(fileType, match, factory); err != nil {
		panic(fmt.Sprintf("failed to register generator %s: %v", fileType, err))
	}
}

func isDockerfile(template string) bool {
	return strings.HasPrefix(path.Base(template), "Dockerfile")
}

func isCompose(template string) bool {
	return strings.Contains(strings.ToLower(path.Base(template)), "compose")
}

func hasSuffix(suffix string) func(string) bool {
	return func(template string) bool { return strings.HasSuffix(template, suffix) }
}
