package build

import (
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/report"
	"github.com/solitary-project/forge/pkg/types"
)

// BuildOptions holds options for the build command
type BuildOptions struct {
	Workspace core.Options

	DryRun        bool
	Strict        bool
	NoPostProcess bool

	// ReportFile, when set, receives a machine-readable report in
	// ReportFormat (json or junit).
	ReportFile   string
	ReportFormat string
}

// Build resolves plugins, renders every task and writes the outputs.
func Build(opts BuildOptions) (*types.BuildResult, error) {
	logger := logging.GetLogger("commands.build")
	logger.Debug().Str("command", "Build").Msg("Executing command")

	ws, err := core.Open(opts.Workspace)
	if err != nil {
		return nil, err
	}

	result, err := ws.Build(core.BuildOptions{
		DryRun:        opts.DryRun,
		Strict:        opts.Strict,
		NoPostProcess: opts.NoPostProcess,
	})
	if err != nil {
		return nil, err
	}

	if opts.ReportFile != "" {
		if err := report.WriteFile(opts.ReportFile, opts.ReportFormat, result); err != nil {
			return result, err
		}
		logger.Info().Str("path", opts.ReportFile).Msg("Report written")
	}

	logger.Info().
		Str("command", "Build").
		Int("written", len(result.Written)).
		Bool("ok", result.OK()).
		Msg("Command finished")
	return result, nil
}
