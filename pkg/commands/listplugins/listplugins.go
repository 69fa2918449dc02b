package listplugins

import (
	"path/filepath"

	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/git"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/types"
)

// ListPluginsOptions holds options for the list-plugins command
type ListPluginsOptions struct {
	Workspace core.Options
}

// ListPlugins lists the directories in the plugin cache. Git checkouts are
// marked and carry their current revision.
func ListPlugins(opts ListPluginsOptions) (*types.ListPluginsResult, error) {
	logger := logging.GetLogger("commands.listplugins")
	logger.Debug().Str("command", "ListPlugins").Msg("Executing command")

	ws, err := core.Open(opts.Workspace)
	if err != nil {
		return nil, err
	}

	names, err := ws.Cache.List()
	if err != nil {
		return nil, err
	}

	result := &types.ListPluginsResult{
		CacheRoot: ws.Cache.Root(),
		Plugins:   make([]types.CachedPluginInfo, 0, len(names)),
	}
	for _, name := range names {
		info := types.CachedPluginInfo{
			Name: name,
			Path: filepath.Join(ws.Cache.Root(), name),
		}
		state, err := ws.Git.Inspect(info.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", info.Path).Msg("Cannot inspect cached plugin")
		}
		if state == git.StateClean || state == git.StateDirty {
			info.IsGit = true
			if rev, err := ws.Git.CurrentRevision(info.Path); err == nil {
				info.Revision = rev
			}
		}
		result.Plugins = append(result.Plugins, info)
	}

	logger.Info().Str("command", "ListPlugins").Int("count", len(result.Plugins)).Msg("Command finished")
	return result, nil
}
