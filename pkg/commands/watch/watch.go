package watch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/paths"
	"github.com/solitary-project/forge/pkg/types"
	fswatch "github.com/solitary-project/forge/pkg/watch"
)

// WatchOptions holds options for the watch command
type WatchOptions struct {
	Build core.BuildOptions

	Workspace core.Options

	// Dirs are watched in addition to the project root.
	Dirs []string

	// OnBuild is called after every build, successful or not.
	OnBuild func(result *types.BuildResult, err error)
}

// Watch runs a build, then watches the project and rebuilds on change. The
// plugin cache and the build outputs are ignored so a build never triggers
// the next one. Plugins with a local directory as source are watched too.
// The configuration is reloaded before each rebuild. It returns when ctx is
// done.
func Watch(ctx context.Context, opts WatchOptions) error {
	logger := logging.GetLogger("commands.watch")
	logger.Debug().Str("command", "Watch").Msg("Executing command")

	ws, err := core.Open(opts.Workspace)
	if err != nil {
		return err
	}

	report := func(result *types.BuildResult, err error) {
		if opts.OnBuild != nil {
			opts.OnBuild(result, err)
		}
	}

	result, err := ws.Build(opts.Build)
	report(result, err)

	watched := watchOptions(ws, opts.Dirs)
	w, err := fswatch.New(watched)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	logger.Info().
		Str("config", ws.Paths.ConfigPath()).
		Int("dirs", len(watched.Dirs)).
		Msg("Watching for changes")

	return w.Run(ctx, func(changed []string) error {
		ws, err := core.Open(opts.Workspace)
		if err != nil {
			report(nil, err)
			return err
		}
		result, err := ws.Build(opts.Build)
		report(result, err)
		return err
	})
}

func watchOptions(ws *core.Workspace, extra []string) fswatch.Options {
	opts := fswatch.Options{
		Files:  []string{ws.Paths.ConfigPath()},
		Dirs:   append([]string{ws.Paths.ProjectRoot()}, extra...),
		Ignore: []string{ws.Cache.Root()},
	}
	for _, task := range ws.Config.Render {
		if target, err := ws.Paths.ResolveOutput(task.Output); err == nil {
			opts.Ignore = append(opts.Ignore, target)
		}
	}
	for _, spec := range ws.Config.Plugins {
		if dir := paths.ExpandHome(spec.Source); filepath.IsAbs(dir) {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				opts.Dirs = append(opts.Dirs, dir)
			}
		}
	}
	return opts
}
