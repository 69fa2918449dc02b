package forge

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/solitary-project/forge/internal/version"
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/git"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/ui"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	verbosity    int
	configPath   string
	environment  string
	outputFormat string

	// source replaces the configured git backend.
	source git.Source
}

// workspace returns the options every project command opens its
// workspace with.
func (g *globals) workspace() core.Options {
	return core.Options{
		ConfigPath:  g.configPath,
		Environment: g.environment,
		Source:      g.source,
	}
}

func (g *globals) renderer(w io.Writer) (ui.Renderer, error) {
	format, err := ui.ParseFormat(g.outputFormat)
	if err != nil {
		return nil, fmt.Errorf(MsgErrOutputFormat, err)
	}
	return ui.NewRenderer(format, w)
}

// renderError reports err in the selected output format. An unusable
// format falls back to plain text.
func (g *globals) renderError(w io.Writer, err error) {
	r, rerr := g.renderer(w)
	if rerr != nil {
		r, _ = ui.NewRenderer(ui.FormatText, w)
	}
	if r == nil || r.RenderError(err) != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&globals{})
}

func newRootCmd(g *globals) *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "forge",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.String(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&g.environment, "env", "e", os.Getenv(EnvEnvironment), MsgFlagEnv)
	rootCmd.PersistentFlags().StringVar(&g.outputFormat, "output-format", "auto", MsgFlagOutputFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "cache", Title: "CACHE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newBuildCmd(g))
	rootCmd.AddCommand(newValidateCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newInitCmd(g))
	rootCmd.AddCommand(newListTemplatesCmd(g))
	rootCmd.AddCommand(newListPluginsCmd(g))
	rootCmd.AddCommand(newCleanCmd(g))
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if err := initTopics(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// Execute runs the command line and returns the process exit code. Errors
// are rendered in the format selected by --output-format.
func Execute(args []string) int {
	g := &globals{}
	rootCmd := newRootCmd(g)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		g.renderError(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}
