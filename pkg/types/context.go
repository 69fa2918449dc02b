package types

import "github.com/mitchellh/copystructure"

// Keys of the template-facing render context.
const (
	ContextKeyVariables      = "variables"
	ContextKeyPlugins        = "plugins"
	ContextKeyProjectRoot    = "project_root"
	ContextKeyConfigPath     = "config_path"
	ContextKeyEnvironment    = "environment"
	ContextKeyEnv            = "env"
	ContextKeyMissingPlugins = "missing_plugins"
)

// PluginContext is one entry of the plugins map exposed to templates.
type PluginContext struct {
	Config   map[string]interface{}
	Path     string
	Manifest map[string]interface{}
	Revision string
}

// RenderContext is the immutable data a render batch runs against.
// Fields are unexported so callers cannot alias its maps; Data hands out
// a fresh deep copy on every call.
type RenderContext struct {
	variables      map[string]interface{}
	plugins        map[string]PluginContext
	pluginOrder    []string
	projectRoot    string
	configPath     string
	environment    string
	env            map[string]interface{}
	missingPlugins []string
}

// RenderContextParts carries the already-copied pieces a RenderContext is
// built from. Only the context builder is expected to use it.
type RenderContextParts struct {
	Variables      map[string]interface{}
	Plugins        map[string]PluginContext
	PluginOrder    []string
	ProjectRoot    string
	ConfigPath     string
	Environment    string
	Env            map[string]interface{}
	MissingPlugins []string
}

// NewRenderContext assembles a RenderContext from parts.
func NewRenderContext(p RenderContextParts) *RenderContext {
	return &RenderContext{
		variables:      p.Variables,
		plugins:        p.Plugins,
		pluginOrder:    p.PluginOrder,
		projectRoot:    p.ProjectRoot,
		configPath:     p.ConfigPath,
		environment:    p.Environment,
		env:            p.Env,
		missingPlugins: p.MissingPlugins,
	}
}

func (c *RenderContext) ProjectRoot() string { return c.projectRoot }
func (c *RenderContext) ConfigPath() string  { return c.configPath }
func (c *RenderContext) Environment() string { return c.environment }

// PluginNames returns plugin names in declaration order.
func (c *RenderContext) PluginNames() []string {
	return append([]string(nil), c.pluginOrder...)
}

// MissingPlugins returns plugins that failed to resolve under the collect policy.
func (c *RenderContext) MissingPlugins() []string {
	return append([]string(nil), c.missingPlugins...)
}

// Data returns the template-facing view of the context. Each call returns an
// independent copy; mutating it never affects the context or other callers.
func (c *RenderContext) Data() map[string]interface{} {
	plugins := make(map[string]interface{}, len(c.plugins))
	for name, p := range c.plugins {
		plugins[name] = map[string]interface{}{
			"config":   p.Config,
			"path":     p.Path,
			"manifest": p.Manifest,
			"revision": p.Revision,
		}
	}
	missing := make([]interface{}, len(c.missingPlugins))
	for i, m := range c.missingPlugins {
		missing[i] = m
	}
	data := map[string]interface{}{
		ContextKeyVariables:      c.variables,
		ContextKeyPlugins:        plugins,
		ContextKeyProjectRoot:    c.projectRoot,
		ContextKeyConfigPath:     c.configPath,
		ContextKeyEnvironment:    c.environment,
		ContextKeyEnv:            c.env,
		ContextKeyMissingPlugins: missing,
	}
	return copystructure.Must(copystructure.Copy(data)).(map[string]interface{})
}
