package clean

import (
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/types"
)

// CleanOptions holds options for the clean command
type CleanOptions struct {
	Workspace core.Options

	// Plugin limits the removal to one cached plugin. Empty removes the
	// whole cache root.
	Plugin string
}

// Clean removes cached plugin checkouts.
func Clean(opts CleanOptions) (*types.CleanResult, error) {
	logger := logging.GetLogger("commands.clean")
	logger.Debug().Str("command", "Clean").Str("plugin", opts.Plugin).Msg("Executing command")

	ws, err := core.Open(opts.Workspace)
	if err != nil {
		return nil, err
	}
	store := ws.Cache
	result := &types.CleanResult{CacheRoot: store.Root(), Removed: []string{}}

	if opts.Plugin != "" {
		exists, err := store.Exists(opts.Plugin)
		if err != nil {
			return nil, err
		}
		if exists {
			if err := store.Remove(opts.Plugin); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, opts.Plugin)
		} else {
			logger.Info().Str("plugin", opts.Plugin).Msg("Plugin is not cached")
		}
		return result, nil
	}

	names, err := store.List()
	if err != nil {
		return nil, err
	}
	if err := store.RemoveAll(); err != nil {
		return nil, err
	}
	result.All = true
	result.Removed = append(result.Removed, names...)

	logger.Info().Str("command", "Clean").Int("removed", len(result.Removed)).Msg("Command finished")
	return result, nil
}
