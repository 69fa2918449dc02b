// Package commands provides high-level command implementations for forge.
//
// This package contains the command orchestration layer that coordinates
// between the CLI interface and the core build pipeline.
//
// Each command is implemented in its own subdirectory:
//   - build/         - Build command
//   - validate/      - Validate command
//   - clean/         - Clean command
//   - listplugins/   - ListPlugins command
//   - listtemplates/ - ListTemplates command
//   - initialize/    - Init command
//   - watch/         - Watch command
//
// This file re-exports the command functions so callers need a single import.
package commands

import (
	"context"

	"github.com/solitary-project/forge/pkg/commands/build"
	"github.com/solitary-project/forge/pkg/commands/clean"
	"github.com/solitary-project/forge/pkg/commands/initialize"
	"github.com/solitary-project/forge/pkg/commands/listplugins"
	"github.com/solitary-project/forge/pkg/commands/listtemplates"
	"github.com/solitary-project/forge/pkg/commands/validate"
	"github.com/solitary-project/forge/pkg/commands/watch"
	"github.com/solitary-project/forge/pkg/types"
)

type BuildOptions = build.BuildOptions

// Build renders every task and writes the outputs.
func Build(opts BuildOptions) (*types.BuildResult, error) {
	return build.Build(opts)
}

type ValidateOptions = validate.ValidateOptions

// Validate checks the project without writing outputs.
func Validate(opts ValidateOptions) (*types.ValidateResult, error) {
	return validate.Validate(opts)
}

type CleanOptions = clean.CleanOptions

// Clean removes cached plugins.
func Clean(opts CleanOptions) (*types.CleanResult, error) {
	return clean.Clean(opts)
}

type ListPluginsOptions = listplugins.ListPluginsOptions

// ListPlugins lists the plugin cache.
func ListPlugins(opts ListPluginsOptions) (*types.ListPluginsResult, error) {
	return listplugins.ListPlugins(opts)
}

type ListTemplatesOptions = listtemplates.ListTemplatesOptions

// ListTemplates lists templates per plugin and which plugin serves each.
func ListTemplates(opts ListTemplatesOptions) (*types.ListTemplatesResult, error) {
	return listtemplates.ListTemplates(opts)
}

type InitOptions = initialize.InitOptions

// Init writes a starter configuration.
func Init(opts InitOptions) (*types.InitResult, error) {
	return initialize.Init(opts)
}

type WatchOptions = watch.WatchOptions

// Watch builds and rebuilds on changes until ctx is done.
func Watch(ctx context.Context, opts WatchOptions) error {
	return watch.Watch(ctx, opts)
}
