package types

// DefaultVersionRef is used when a plugin declaration omits a version.
const DefaultVersionRef = "main"

// PluginSpec is a plugin as declared in the project configuration.
// It must not be modified once resolution has started.
type PluginSpec struct {
	Name    string                 `json:"name" yaml:"name" koanf:"name"`
	Source  string                 `json:"source" yaml:"git" koanf:"git"`
	Version string                 `json:"version,omitempty" yaml:"version,omitempty" koanf:"version"`
	Config  map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty" koanf:"config"`
}

// VersionRef returns the requested ref, falling back to DefaultVersionRef.
func (p PluginSpec) VersionRef() string {
	if p.Version == "" {
		return DefaultVersionRef
	}
	return p.Version
}

// Manifest is the optional plugin.yml metadata at a plugin's root.
type Manifest struct {
	Name         string   `json:"name" yaml:"name" toml:"name"`
	Version      string   `json:"version" yaml:"version" toml:"version"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}

// ToMap returns the manifest in the shape templates see.
func (m *Manifest) ToMap() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	deps := make([]interface{}, len(m.Dependencies))
	for i, d := range m.Dependencies {
		deps[i] = d
	}
	return map[string]interface{}{
		"name":         m.Name,
		"version":      m.Version,
		"description":  m.Description,
		"dependencies": deps,
	}
}

// CachedPlugin is a plugin materialized in the cache at a known revision.
type CachedPlugin struct {
	Name             string                 `json:"name"`
	Source           string                 `json:"source"`
	LocalPath        string                 `json:"localPath"`
	RequestedVersion string                 `json:"requestedVersion"`
	ResolvedVersion  string                 `json:"resolvedVersion"`
	Manifest         *Manifest              `json:"manifest,omitempty"`
	TemplatesPath    string                 `json:"templatesPath,omitempty"`
	Config           map[string]interface{} `json:"config,omitempty"`
}

// HasTemplates reports whether the plugin ships a templates directory.
func (p *CachedPlugin) HasTemplates() bool {
	return p.TemplatesPath != ""
}

// PluginFailure records a plugin that could not be resolved.
type PluginFailure struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// Message returns the failure text for reports.
func (f PluginFailure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// Resolution is the outcome of resolving every declared plugin.
// Plugins keeps declaration order.
type Resolution struct {
	Plugins  []*CachedPlugin `json:"plugins"`
	Failures []PluginFailure `json:"failures,omitempty"`
}

// Names returns the resolved plugin names in declaration order.
func (r *Resolution) Names() []string {
	names := make([]string, 0, len(r.Plugins))
	for _, p := range r.Plugins {
		names = append(names, p.Name)
	}
	return names
}

// FailedNames returns the names of plugins that failed to resolve.
func (r *Resolution) FailedNames() []string {
	names := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		names = append(names, f.Name)
	}
	return names
}
