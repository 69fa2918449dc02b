package core

import (
	"github.com/solitary-project/forge/pkg/cache"
	"github.com/solitary-project/forge/pkg/config"
	"github.com/solitary-project/forge/pkg/filesystem"
	"github.com/solitary-project/forge/pkg/git"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/paths"
	"github.com/solitary-project/forge/pkg/plugin"
	"github.com/solitary-project/forge/pkg/render"
	"github.com/solitary-project/forge/pkg/rendercontext"
	"github.com/solitary-project/forge/pkg/types"
)

// Options control how a Workspace is opened.
type Options struct {
	// ConfigPath is an explicit configuration file. When empty the
	// configuration is searched from StartDir upwards.
	ConfigPath string
	StartDir   string

	// Environment selects the variables overlay. Empty means "base".
	Environment string

	// CacheDir and SharedCache override the configuration settings.
	CacheDir    string
	SharedCache bool

	// FS and Source replace the OS filesystem and the configured git
	// backend. Tests use them to run without a network.
	FS     types.FS
	Source git.Source
}

// Workspace is a loaded project ready to resolve plugins and render.
type Workspace struct {
	Config      *config.Config
	Paths       paths.Paths
	FS          types.FS
	Cache       *cache.Store
	Git         git.Source
	Environment string
}

// Open loads the project configuration and sets up the plugin cache and
// git source it asks for.
func Open(opts Options) (*Workspace, error) {
	pathOpts := paths.Options{ConfigPath: opts.ConfigPath, StartDir: opts.StartDir}
	p, err := paths.New(pathOpts)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p.ConfigPath())
	if err != nil {
		return nil, err
	}

	// The cache root depends on settings, so paths are resolved again once
	// the configuration is known. Explicit options win over settings.
	pathOpts.ConfigPath = p.ConfigPath()
	pathOpts.CacheDir = cfg.Settings.CacheDir
	pathOpts.SharedCache = cfg.Settings.SharedCache
	if opts.CacheDir != "" {
		pathOpts.CacheDir = opts.CacheDir
	}
	if opts.SharedCache {
		pathOpts.SharedCache = true
	}
	if p, err = paths.New(pathOpts); err != nil {
		return nil, err
	}

	return newWorkspace(cfg, p, opts)
}

// NewWorkspace builds a Workspace from an already loaded configuration.
func NewWorkspace(cfg *config.Config, p paths.Paths, opts Options) (*Workspace, error) {
	return newWorkspace(cfg, p, opts)
}

func newWorkspace(cfg *config.Config, p paths.Paths, opts Options) (*Workspace, error) {
	logger := logging.GetLogger("core.workspace")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	source := opts.Source
	if source == nil {
		var err error
		source, err = git.New(cfg.Settings.GitBackend, git.Options{Timeout: cfg.Settings.GitTimeout})
		if err != nil {
			return nil, err
		}
	}

	// Unknown environments fail here rather than halfway through a build.
	if _, err := cfg.EnvironmentVariables(opts.Environment); err != nil {
		return nil, err
	}

	ws := &Workspace{
		Config:      cfg,
		Paths:       p,
		FS:          fsys,
		Cache:       cache.New(p.CacheRoot(), fsys),
		Git:         source,
		Environment: opts.Environment,
	}
	if ws.Environment == "" {
		ws.Environment = config.DefaultEnvironment
	}

	logger.Debug().
		Str("project", p.ProjectRoot()).
		Str("cache", p.CacheRoot()).
		Str("environment", ws.Environment).
		Msg("Workspace opened")
	return ws, nil
}

// Policy returns the plugin failure policy from the settings.
func (w *Workspace) Policy() plugin.FailurePolicy {
	if w.Config.Settings.CollectPluginErrors() {
		return plugin.CollectAll
	}
	return plugin.AbortOnFirst
}

// Resolver returns a plugin resolver bound to the workspace cache.
func (w *Workspace) Resolver() *plugin.Resolver {
	return plugin.NewResolver(w.Cache, w.Git, w.FS, w.Policy())
}

// Resolve brings every configured plugin into the cache.
func (w *Workspace) Resolve() (*types.Resolution, error) {
	return w.Resolver().Resolve(w.Config.Plugins)
}

// Context builds the render context for a resolution.
func (w *Workspace) Context(res *types.Resolution) (*types.RenderContext, error) {
	envVars, err := w.Config.EnvironmentVariables(w.Environment)
	if err != nil {
		return nil, err
	}
	return rendercontext.FromResolution(res, rendercontext.Input{
		Variables:    w.Config.Variables,
		ProjectRoot:  w.Paths.ProjectRoot(),
		ConfigPath:   w.Paths.ConfigPath(),
		Environment:  w.Environment,
		EnvVariables: envVars,
	})
}

// Prepared is a resolved workspace with its context and render pipeline.
type Prepared struct {
	Resolution *types.Resolution
	Context    *types.RenderContext
	Pipeline   *render.Pipeline
}

// Prepare resolves plugins and sets up everything a render needs.
func (w *Workspace) Prepare() (*Prepared, error) {
	res, err := w.Resolve()
	if err != nil {
		return nil, err
	}
	rctx, err := w.Context(res)
	if err != nil {
		return nil, err
	}
	return &Prepared{
		Resolution: res,
		Context:    rctx,
		Pipeline:   render.NewPipeline(w.FS, res.Plugins),
	}, nil
}
