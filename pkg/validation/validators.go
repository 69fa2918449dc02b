package validation

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/solitary-project/forge/pkg/plugin"
	"github.com/solitary-project/forge/pkg/render"
	"github.com/solitary-project/forge/pkg/types"
)

var gitURLPrefixes = []string{"http://", "https://", "git@", "ssh://", "git://", "file://"}

// ConfigValidator checks recommended variables and plugin source formats.
type ConfigValidator struct{}

func (ConfigValidator) Name() string { return "config" }

func (v ConfigValidator) Validate(in *Input) []types.Finding {
	var out []types.Finding
	if name, _ := in.Variables()["project_name"].(string); strings.TrimSpace(name) == "" {
		out = append(out, warnf(v.Name(), "missing recommended variable: project_name"))
	}
	if in.Config == nil {
		return out
	}
	for _, spec := range in.Config.Plugins {
		if !hasGitPrefix(spec.Source) && !filepath.IsAbs(spec.Source) {
			out = append(out, warnf(v.Name(), "plugin '%s' has unusual git URL format: %s", spec.Name, spec.Source))
		}
	}
	return out
}

func hasGitPrefix(source string) bool {
	for _, p := range gitURLPrefixes {
		if strings.HasPrefix(source, p) {
			return true
		}
	}
	return false
}

// PluginValidator checks that plugins resolved and ship templates.
type PluginValidator struct{}

func (PluginValidator) Name() string { return "plugins" }

func (v PluginValidator) Validate(in *Input) []types.Finding {
	var out []types.Finding
	for _, f := range in.Failures {
		out = append(out, errorf(v.Name(), "plugin '%s' could not be resolved: %s", f.Name, f.Message()))
	}
	if len(in.Plugins) == 0 {
		return append(out, errorf(v.Name(), "no plugins available"))
	}
	for _, p := range in.Plugins {
		if !p.HasTemplates() {
			out = append(out, warnf(v.Name(), "plugin '%s' has no templates directory", p.Name))
			continue
		}
		if in.FS == nil {
			continue
		}
		names, err := plugin.ListTemplates(in.FS, p)
		if err != nil {
			out = append(out, errorf(v.Name(), "plugin '%s': %v", p.Name, err))
			continue
		}
		if len(names) == 0 {
			out = append(out, warnf(v.Name(), "plugin '%s' has no templates", p.Name))
		}
	}
	return out
}

// TemplateValidator checks that every render task's template is provided
// by some plugin.
type TemplateValidator struct{}

func (TemplateValidator) Name() string { return "templates" }

func (v TemplateValidator) Validate(in *Input) []types.Finding {
	if in.Config == nil || in.FS == nil {
		return nil
	}
	locator := render.NewLocator(in.FS, in.Plugins)
	var out []types.Finding
	for _, name := range in.Config.TemplateNames() {
		if _, err := locator.Find(name); err != nil {
			out = append(out, errorf(v.Name(), "template not found: %s", name))
			continue
		}
		if candidates := locator.Candidates(name); len(candidates) > 1 {
			shadowed := make([]string, 0, len(candidates)-1)
			for _, c := range candidates[1:] {
				shadowed = append(shadowed, c.Plugin)
			}
			out = append(out, warnf(v.Name(), "template %s from '%s' shadows %s",
				name, candidates[0].Plugin, strings.Join(shadowed, ", ")))
		}
	}
	return out
}

// OutputPathValidator checks render outputs for duplicates, escapes and
// parents that are not directories.
type OutputPathValidator struct{}

func (OutputPathValidator) Name() string { return "outputs" }

func (v OutputPathValidator) Validate(in *Input) []types.Finding {
	if in.Config == nil {
		return nil
	}
	var out []types.Finding
	seen := make(map[string]bool, len(in.Config.Render))
	for _, task := range in.Config.Render {
		key := filepath.Clean(task.Output)
		if seen[key] {
			out = append(out, errorf(v.Name(), "duplicate output path: %s", task.Output))
			continue
		}
		seen[key] = true

		if in.Paths == nil {
			continue
		}
		target, err := in.Paths.ResolveOutput(task.Output)
		if err != nil {
			out = append(out, errorf(v.Name(), "invalid output path %s: %v", task.Output, err))
			continue
		}
		if in.FS == nil {
			continue
		}
		if info, err := in.FS.Stat(filepath.Dir(target)); err == nil && !info.IsDir() {
			out = append(out, errorf(v.Name(), "output directory is not a directory: %s", filepath.Dir(target)))
		} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			out = append(out, errorf(v.Name(), "cannot inspect output directory of %s: %v", task.Output, err))
		}
	}
	return out
}

// DependencyValidator warns about manifest dependencies that are not
// declared in the configuration. Dependencies are never fetched.
type DependencyValidator struct{}

func (DependencyValidator) Name() string { return "dependencies" }

func (v DependencyValidator) Validate(in *Input) []types.Finding {
	declared := make(map[string]bool, len(in.Plugins))
	for _, p := range in.Plugins {
		declared[p.Name] = true
	}
	if in.Config != nil {
		for _, spec := range in.Config.Plugins {
			declared[spec.Name] = true
		}
	}
	var out []types.Finding
	for _, p := range in.Plugins {
		if p.Manifest == nil {
			continue
		}
		for _, dep := range p.Manifest.Dependencies {
			if !declared[dep] {
				out = append(out, warnf(v.Name(), "plugin '%s' depends on '%s', which is not configured", p.Name, dep))
			}
		}
	}
	return out
}
