package config

import (
	"fmt"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/types"
)

func newValidationError(format string, args ...interface{}) *errors.ForgeError {
	return errors.Newf(errors.ErrConfigValid, format, args...)
}

// ValidatePlugins checks plugin declarations: at least one, each with a
// name and a source, names unique. It performs no I/O.
func ValidatePlugins(specs []types.PluginSpec) error {
	if len(specs) == 0 {
		return newValidationError("at least one plugin must be specified")
	}
	seen := make(map[string]int, len(specs))
	for i, p := range specs {
		if strings.TrimSpace(p.Name) == "" {
			return newValidationError("plugin #%d: name cannot be empty", i+1)
		}
		if strings.TrimSpace(p.Source) == "" {
			return newValidationError("plugin %q: git source cannot be empty", p.Name).WithDetail("plugin", p.Name)
		}
		if first, dup := seen[p.Name]; dup {
			return newValidationError("plugin names must be unique: %q declared at #%d and #%d", p.Name, first+1, i+1).
				WithDetail("plugin", p.Name)
		}
		seen[p.Name] = i
	}
	return nil
}

// Validate checks the structural rules of a configuration.
func Validate(c *Config) error {
	if err := ValidatePlugins(c.Plugins); err != nil {
		return err
	}
	if len(c.Render) == 0 {
		return newValidationError("at least one render configuration must be specified")
	}
	for i, r := range c.Render {
		if r.Template == "" || r.Output == "" {
			return newValidationError("render #%d: template and output paths cannot be empty", i+1)
		}
	}

	var problems []string
	switch c.Settings.GitBackend {
	case GitBackendGoGit, GitBackendCLI:
	default:
		problems = append(problems, fmt.Sprintf("settings.git_backend must be %q or %q, got %q",
			GitBackendGoGit, GitBackendCLI, c.Settings.GitBackend))
	}
	switch c.Settings.OnPluginError {
	case OnPluginErrorAbort, OnPluginErrorCollect:
	default:
		problems = append(problems, fmt.Sprintf("settings.on_plugin_error must be %q or %q, got %q",
			OnPluginErrorAbort, OnPluginErrorCollect, c.Settings.OnPluginError))
	}
	if c.Settings.GitTimeout <= 0 {
		problems = append(problems, "settings.git_timeout must be positive")
	}
	if len(problems) > 0 {
		return newValidationError("invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}
