package validate

import (
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/report"
	"github.com/solitary-project/forge/pkg/types"
)

// ValidateOptions holds options for the validate command
type ValidateOptions struct {
	Workspace core.Options

	ReportFile   string
	ReportFormat string
}

// Validate resolves plugins and runs every validator and a strict render
// pass. Nothing is written to the project.
func Validate(opts ValidateOptions) (*types.ValidateResult, error) {
	logger := logging.GetLogger("commands.validate")
	logger.Debug().Str("command", "Validate").Msg("Executing command")

	ws, err := core.Open(opts.Workspace)
	if err != nil {
		return nil, err
	}
	result, err := ws.Validate()
	if err != nil {
		return nil, err
	}

	if opts.ReportFile != "" {
		if err := report.WriteFile(opts.ReportFile, opts.ReportFormat, result); err != nil {
			return result, err
		}
	}

	logger.Info().
		Str("command", "Validate").
		Int("errors", len(result.Errors())).
		Int("warnings", len(result.Warnings())).
		Msg("Command finished")
	return result, nil
}
