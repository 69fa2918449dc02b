package initialize

import (
	"os"
	"path/filepath"

	"github.com/solitary-project/forge/pkg/config"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/paths"
	"github.com/solitary-project/forge/pkg/types"
)

// InitOptions holds options for the init command
type InitOptions struct {
	// Dir is the project directory. Defaults to the working directory.
	Dir string

	// Format is yaml or toml. Defaults to yaml.
	Format string

	// Force replaces an existing configuration.
	Force bool
}

// Init writes a starter configuration into the project directory.
func Init(opts InitOptions) (*types.InitResult, error) {
	logger := logging.GetLogger("commands.initialize")
	logger.Debug().Str("command", "Init").Str("dir", opts.Dir).Msg("Executing command")

	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to get current directory")
		}
		dir = cwd
	}
	dir, err := filepath.Abs(paths.ExpandHome(dir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid directory %s", opts.Dir)
	}

	format := config.Format(opts.Format)
	if format == "" {
		format = config.FormatYAML
	}
	content, err := config.Starter(dir, format)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(dir, config.FileName(format))
	result := &types.InitResult{ConfigPath: target, Format: string(format)}

	for _, name := range paths.ConfigFileNames {
		existing := filepath.Join(dir, name)
		if _, err := os.Stat(existing); err != nil {
			continue
		}
		if !opts.Force {
			return nil, errors.Newf(errors.ErrAlreadyExists, "configuration already exists: %s (use --force to replace it)", existing).
				WithDetail("path", existing)
		}
		if existing == target {
			result.Overwrote = true
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrOutputWrite, "failed to create directory %s", dir)
	}
	if err := os.WriteFile(target, content, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrOutputWrite, "failed to write configuration %s", target).
			WithDetail("path", target)
	}

	logger.Info().Str("path", target).Str("format", string(format)).Msg("Configuration written")
	return result, nil
}
