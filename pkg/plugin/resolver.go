// Package plugin turns declared plugins into cached, checked-out plugin
// trees. Resolution is sequential and follows declaration order, which is
// also the template lookup priority.
package plugin

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/solitary-project/forge/pkg/cache"
	"github.com/solitary-project/forge/pkg/config"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/git"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/types"
)

// FailurePolicy decides what a plugin failure does to the rest of the batch.
type FailurePolicy int

const (
	// AbortOnFirst stops at the first failing plugin and returns its error.
	AbortOnFirst FailurePolicy = iota
	// CollectAll records failures and keeps resolving the remaining plugins.
	CollectAll
)

// Resolver materializes plugins in a cache through a git source.
type Resolver struct {
	Cache  *cache.Store
	Git    git.Source
	FS     types.FS
	Policy FailurePolicy
}

// NewResolver returns a Resolver.
func NewResolver(store *cache.Store, source git.Source, fsys types.FS, policy FailurePolicy) *Resolver {
	return &Resolver{Cache: store, Git: source, FS: fsys, Policy: policy}
}

// Resolve brings every spec into the cache at its requested version.
// Declarations are validated before any git operation. Under AbortOnFirst
// the first failure is returned as the error; under CollectAll it is
// recorded in the resolution and the loop continues.
func (r *Resolver) Resolve(specs []types.PluginSpec) (*types.Resolution, error) {
	logger := logging.GetLogger("plugin.resolver")
	done := logging.LogOperationStart(logger, "resolve")
	defer done()

	if err := config.ValidatePlugins(specs); err != nil {
		return nil, err
	}
	if err := r.Cache.Ensure(); err != nil {
		return nil, err
	}

	res := &types.Resolution{Plugins: make([]*types.CachedPlugin, 0, len(specs))}
	for _, spec := range specs {
		plugin, err := r.resolveOne(spec)
		if err != nil {
			if r.Policy == AbortOnFirst {
				return nil, err
			}
			logger.Warn().Err(err).Str("plugin", spec.Name).Msg("Plugin failed, continuing")
			res.Failures = append(res.Failures, types.PluginFailure{Name: spec.Name, Err: err})
			continue
		}
		logger.Info().
			Str("plugin", plugin.Name).
			Str("version", plugin.RequestedVersion).
			Str("revision", plugin.ResolvedVersion).
			Msg("Plugin ready")
		res.Plugins = append(res.Plugins, plugin)
	}
	return res, nil
}

func (r *Resolver) resolveOne(spec types.PluginSpec) (*types.CachedPlugin, error) {
	dest := r.Cache.PathFor(spec.Name)
	ref := spec.VersionRef()

	if err := r.Git.EnsureCloned(spec.Source, dest); err != nil {
		return nil, annotate(err, spec)
	}
	if err := r.Git.UpdateAndCheckout(dest, ref); err != nil {
		return nil, annotate(err, spec)
	}

	manifest, err := LoadManifest(r.FS, dest)
	if err != nil {
		return nil, annotate(err, spec)
	}

	templates, err := r.templatesPath(dest)
	if err != nil {
		return nil, annotate(err, spec)
	}

	revision, err := r.Git.CurrentRevision(dest)
	if err != nil {
		return nil, annotate(err, spec)
	}

	return &types.CachedPlugin{
		Name:             spec.Name,
		Source:           spec.Source,
		LocalPath:        dest,
		RequestedVersion: ref,
		ResolvedVersion:  revision,
		Manifest:         manifest,
		TemplatesPath:    templates,
		Config:           spec.Config,
	}, nil
}

// templatesPath returns the templates directory, or "" when the plugin has none.
func (r *Resolver) templatesPath(dest string) (string, error) {
	path := filepath.Join(dest, TemplatesDir)
	info, err := r.FS.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrPluginInvalid, "cannot access %s", path)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrPluginInvalid, "%s is not a directory", path).WithDetail("path", path)
	}
	return path, nil
}

func annotate(err error, spec types.PluginSpec) error {
	var fe *errors.ForgeError
	if stderrors.As(err, &fe) {
		return fe.WithDetail("plugin", spec.Name).WithDetail("version", spec.VersionRef())
	}
	return errors.Wrapf(err, errors.ErrPluginInvalid, "plugin %s", spec.Name).WithDetail("plugin", spec.Name)
}
