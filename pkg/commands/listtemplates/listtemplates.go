package listtemplates

import (
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/plugin"
	"github.com/solitary-project/forge/pkg/render"
	"github.com/solitary-project/forge/pkg/types"
)

// ListTemplatesOptions holds options for the list-templates command
type ListTemplatesOptions struct {
	Workspace core.Options
}

// ListTemplates resolves plugins and lists the templates each provides,
// along with the plugin a render task would actually use for each name.
func ListTemplates(opts ListTemplatesOptions) (*types.ListTemplatesResult, error) {
	logger := logging.GetLogger("commands.listtemplates")
	logger.Debug().Str("command", "ListTemplates").Msg("Executing command")

	ws, err := core.Open(opts.Workspace)
	if err != nil {
		return nil, err
	}
	res, err := ws.Resolve()
	if err != nil {
		return nil, err
	}

	locator := render.NewLocator(ws.FS, res.Plugins)
	result := &types.ListTemplatesResult{
		Plugins: make([]types.PluginTemplates, 0, len(res.Plugins)),
		Winners: map[string]string{},
	}
	for _, p := range res.Plugins {
		names, err := plugin.ListTemplates(ws.FS, p)
		if err != nil {
			return nil, err
		}
		result.Plugins = append(result.Plugins, types.PluginTemplates{Plugin: p.Name, Templates: names})
		for _, name := range names {
			if _, done := result.Winners[name]; done {
				continue
			}
			if loc, err := locator.Find(name); err == nil {
				result.Winners[name] = loc.Plugin
			}
		}
	}

	logger.Info().Str("command", "ListTemplates").Int("templates", len(result.Winners)).Msg("Command finished")
	return result, nil
}
