package forge

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort          = "Render project files from plugin templates"
	MsgBuildShort         = "Resolve plugins and render every task"
	MsgValidateShort      = "Check the project without writing outputs"
	MsgInitShort          = "Write a starter configuration"
	MsgCleanShort         = "Remove cached plugins"
	MsgListPluginsShort   = "List cached plugins"
	MsgListPluginsLong    = "List the plugin directories in the cache. Git checkouts are shown with their current revision."
	MsgListTemplatesShort = "List templates and the plugin serving each"
	MsgWatchShort         = "Build, then rebuild on changes"
	MsgTopicsShort        = "Display available documentation topics"
	MsgTopicsLong         = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort    = "Generate shell completion script"

	// Status messages
	MsgWatching       = "Watching for changes (Ctrl-C to stop)"
	MsgRebuilt        = "Rebuilt: %d written, %d failed"
	MsgWatchBuildFail = "Build failed: %v"

	// Error messages
	MsgErrBuild         = "build failed: %w"
	MsgErrValidate      = "validation failed: %w"
	MsgErrInvalid       = "validation found %d error(s)"
	MsgErrBuildFailures = "%d task(s) failed"
	MsgErrInit          = "failed to initialize project: %w"
	MsgErrClean         = "failed to clean cache: %w"
	MsgErrListPlugins   = "failed to list plugins: %w"
	MsgErrListTemplates = "failed to list templates: %w"
	MsgErrWatch         = "watch stopped: %w"
	MsgErrOutputFormat  = "invalid --output-format: %w"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Configuration file (default: search .forge.yml upwards)"
	MsgFlagEnv           = "Environment overlay to render with (default: base, or $FORGE_ENV)"
	MsgFlagOutputFormat  = "Output format: auto, term, text or json (auto honours $FORGE_OUTPUT_FORMAT)"
	MsgFlagDryRun        = "Render without writing outputs"
	MsgFlagStrict        = "Write nothing when any task fails"
	MsgFlagNoPostProcess = "Skip generator post-processing of rendered output"
	MsgFlagReport        = "Write a machine-readable report to this file"
	MsgFlagReportFormat  = "Report format: json or junit (default: from the file extension)"
	MsgFlagForce         = "Replace an existing configuration"
	MsgFlagFormat        = "Configuration format: yaml or toml"
	MsgFlagPlugin        = "Remove only this plugin's cache entry"
	MsgFlagWatchDir      = "Additional directory to watch (repeatable)"
)

// EnvEnvironment supplies the default for --env.
const EnvEnvironment = "FORGE_ENV"

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimRight(msgBuildExampleRaw, "\n")

	//go:embed msgs/validate-long.txt
	msgValidateLongRaw string
	MsgValidateLong    = strings.TrimSpace(msgValidateLongRaw)

	//go:embed msgs/validate-example.txt
	msgValidateExampleRaw string
	MsgValidateExample    = strings.TrimRight(msgValidateExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/clean-long.txt
	msgCleanLongRaw string
	MsgCleanLong    = strings.TrimSpace(msgCleanLongRaw)

	//go:embed msgs/list-templates-long.txt
	msgListTemplatesLongRaw string
	MsgListTemplatesLong    = strings.TrimSpace(msgListTemplatesLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
