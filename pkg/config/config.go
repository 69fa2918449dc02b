package config

import (
	"time"

	"github.com/solitary-project/forge/pkg/types"
)

// Git backends
const (
	GitBackendGoGit = "go-git"
	GitBackendCLI   = "cli"
)

// Plugin failure policies
const (
	OnPluginErrorAbort   = "abort"
	OnPluginErrorCollect = "collect"
)

// DefaultEnvironment is selected when no environment is requested.
const DefaultEnvironment = "base"

// Config is the project configuration
type Config struct {
	Variables    map[string]interface{}            `koanf:"variables"`
	Plugins      []types.PluginSpec                `koanf:"plugins"`
	Render       []types.RenderTask                `koanf:"render"`
	Environments map[string]map[string]interface{} `koanf:"environments"`
	Settings     Settings                          `koanf:"settings"`

	// Path is the file the configuration was loaded from, if any.
	Path string `koanf:"-"`
}

// Settings tune how forge acquires plugins and writes output
type Settings struct {
	CacheDir      string        `koanf:"cache_dir"`
	SharedCache   bool          `koanf:"shared_cache"`
	GitBackend    string        `koanf:"git_backend"`
	GitTimeout    time.Duration `koanf:"git_timeout"`
	OnPluginError string        `koanf:"on_plugin_error"`
	PostProcess   bool          `koanf:"post_process"`
	Strict        bool          `koanf:"strict"`
}

// CollectPluginErrors reports whether plugin failures are collected
// instead of aborting the build.
func (s Settings) CollectPluginErrors() bool {
	return s.OnPluginError == OnPluginErrorCollect
}

// EnvironmentVariables returns the overlay for the named environment.
// The default environment may be absent; any other name must be declared.
func (c *Config) EnvironmentVariables(name string) (map[string]interface{}, error) {
	if name == "" {
		name = DefaultEnvironment
	}
	if vars, ok := c.Environments[name]; ok {
		if vars == nil {
			return map[string]interface{}{}, nil
		}
		return vars, nil
	}
	if name == DefaultEnvironment {
		return map[string]interface{}{}, nil
	}
	return nil, newValidationError("unknown environment %q", name).WithDetail("environment", name)
}

// TemplateNames returns the distinct templates referenced by render tasks, in order.
func (c *Config) TemplateNames() []string {
	seen := make(map[string]bool, len(c.Render))
	var names []string
	for _, r := range c.Render {
		if !seen[r.Template] {
			seen[r.Template] = true
			names = append(names, r.Template)
		}
	}
	return names
}
