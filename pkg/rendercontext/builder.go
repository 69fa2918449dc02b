// Package rendercontext composes the data templates render against.
//
// Build is a pure function of its input: it never touches the filesystem or
// git, and the context it returns shares no mutable state with the input
// or with any map handed out by RenderContext.Data.
package rendercontext

import (
	"path/filepath"

	"github.com/mitchellh/copystructure"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/types"
)

// Input is everything a render context is composed from.
type Input struct {
	Variables      map[string]interface{}
	Plugins        []*types.CachedPlugin
	ProjectRoot    string
	ConfigPath     string
	Environment    string
	EnvVariables   map[string]interface{}
	MissingPlugins []string
}

// Build composes an immutable RenderContext from in.
//
// Variables are copied verbatim. Each plugin contributes its config, path,
// manifest and revision under its own name. Two plugins with the same name
// mean the resolver let a duplicate through, which is reported as an
// internal error rather than silently merged.
func Build(in Input) (*types.RenderContext, error) {
	plugins := make(map[string]types.PluginContext, len(in.Plugins))
	order := make([]string, 0, len(in.Plugins))

	for _, p := range in.Plugins {
		if p == nil {
			continue
		}
		if _, dup := plugins[p.Name]; dup {
			return nil, errors.Newf(errors.ErrInternal, "plugin %q appears twice in the resolved set", p.Name).
				WithDetail("plugin", p.Name)
		}
		config, err := copyMap(p.Config)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "cannot copy config of plugin %s", p.Name).
				WithDetail("plugin", p.Name)
		}
		plugins[p.Name] = types.PluginContext{
			Config:   config,
			Path:     absolute(p.LocalPath),
			Manifest: p.Manifest.ToMap(),
			Revision: p.ResolvedVersion,
		}
		order = append(order, p.Name)
	}

	variables, err := copyMap(in.Variables)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot copy variables")
	}
	env, err := copyMap(in.EnvVariables)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot copy environment variables")
	}

	return types.NewRenderContext(types.RenderContextParts{
		Variables:      variables,
		Plugins:        plugins,
		PluginOrder:    order,
		ProjectRoot:    absolute(in.ProjectRoot),
		ConfigPath:     absolute(in.ConfigPath),
		Environment:    in.Environment,
		Env:            env,
		MissingPlugins: append([]string{}, in.MissingPlugins...),
	}), nil
}

// FromResolution is Build with plugins and failures taken from a resolution.
func FromResolution(res *types.Resolution, in Input) (*types.RenderContext, error) {
	if res != nil {
		in.Plugins = res.Plugins
		in.MissingPlugins = append(in.MissingPlugins, res.FailedNames()...)
	}
	return Build(in)
}

func copyMap(m map[string]interface{}) (map[string]interface{}, error) {
	if m == nil {
		return map[string]interface{}{}, nil
	}
	c, err := copystructure.Copy(m)
	if err != nil {
		return nil, err
	}
	return c.(map[string]interface{}), nil
}

func absolute(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
