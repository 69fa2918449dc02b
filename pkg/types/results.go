package types

import "time"

// BuildResult holds the result of the 'build' command.
type BuildResult struct {
	BuildID        string          `json:"buildId"`
	ProjectRoot    string          `json:"projectRoot"`
	Environment    string          `json:"environment,omitempty"`
	DryRun         bool            `json:"dryRun"`
	Plugins        []*CachedPlugin `json:"plugins"`
	PluginFailures []PluginFailure `json:"-"`
	Written        []WrittenFile   `json:"written"`
	RenderFailures []RenderFailure `json:"-"`
	StartedAt      time.Time       `json:"startedAt"`
	Duration       time.Duration   `json:"duration"`
}

// OK reports whether the build had no plugin or render failures.
func (r *BuildResult) OK() bool {
	return len(r.PluginFailures) == 0 && len(r.RenderFailures) == 0
}

// WrittenFile is an output produced by a build.
type WrittenFile struct {
	Path      string `json:"path"`
	Template  string `json:"template"`
	Plugin    string `json:"plugin"`
	Bytes     int    `json:"bytes"`
	Generator string `json:"generator,omitempty"`
	Written   bool   `json:"written"`
	Unchanged bool   `json:"unchanged,omitempty"`
}

// Severity of a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single validation error or warning.
type Finding struct {
	Validator string   `json:"validator"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
}

// ValidateResult holds the result of the 'validate' command.
type ValidateResult struct {
	ProjectRoot string    `json:"projectRoot"`
	Findings    []Finding `json:"findings"`
}

// Errors returns the error-severity findings.
func (r *ValidateResult) Errors() []Finding { return r.filter(SeverityError) }

// Warnings returns the warning-severity findings.
func (r *ValidateResult) Warnings() []Finding { return r.filter(SeverityWarning) }

// Valid reports whether there are no error findings.
func (r *ValidateResult) Valid() bool { return len(r.Errors()) == 0 }

func (r *ValidateResult) filter(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// CleanResult holds the result of the 'clean' command.
type CleanResult struct {
	CacheRoot string   `json:"cacheRoot"`
	Removed   []string `json:"removed"`
	All       bool     `json:"all"`
}

// CachedPluginInfo describes a directory in the plugin cache.
type CachedPluginInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Revision string `json:"revision,omitempty"`
	IsGit    bool   `json:"isGit"`
}

// ListPluginsResult holds the result of the 'list-plugins' command.
type ListPluginsResult struct {
	CacheRoot string             `json:"cacheRoot"`
	Plugins   []CachedPluginInfo `json:"plugins"`
}

// PluginTemplates lists the templates one plugin provides.
type PluginTemplates struct {
	Plugin    string   `json:"plugin"`
	Templates []string `json:"templates"`
}

// ListTemplatesResult holds the result of the 'list-templates' command.
// Winners maps each template name to the plugin that serves it.
type ListTemplatesResult struct {
	Plugins []PluginTemplates `json:"plugins"`
	Winners map[string]string `json:"winners"`
}

// InitResult holds the result of the 'init' command.
type InitResult struct {
	ConfigPath string `json:"configPath"`
	Format     string `json:"format"`
	Overwrote  bool   `json:"overwrote"`
}
