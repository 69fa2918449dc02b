package forge

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/solitary-project/forge/pkg/commands"
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/types"
	"github.com/spf13/cobra"
)

func newBuildCmd(g *globals) *cobra.Command {
	var opts commands.BuildOptions

	cmd := &cobra.Command{
		Use:     "build",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			opts.Workspace = g.workspace()

			log.Info().
				Str("environment", g.environment).
				Bool("dry_run", opts.DryRun).
				Bool("strict", opts.Strict).
				Msg("Building project")

			result, err := commands.Build(opts)
			if err != nil {
				return fmt.Errorf(MsgErrBuild, err)
			}
			if err := renderer.RenderResult(result); err != nil {
				return err
			}
			if !result.OK() {
				return fmt.Errorf(MsgErrBuildFailures, len(result.RenderFailures)+len(result.PluginFailures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, MsgFlagStrict)
	cmd.Flags().BoolVar(&opts.NoPostProcess, "no-post-process", false, MsgFlagNoPostProcess)
	cmd.Flags().StringVar(&opts.ReportFile, "report", "", MsgFlagReport)
	cmd.Flags().StringVar(&opts.ReportFormat, "report-format", "", MsgFlagReportFormat)

	return cmd
}

func newValidateCmd(g *globals) *cobra.Command {
	var opts commands.ValidateOptions

	cmd := &cobra.Command{
		Use:     "validate",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		Example: MsgValidateExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			opts.Workspace = g.workspace()

			result, err := commands.Validate(opts)
			if err != nil {
				return fmt.Errorf(MsgErrValidate, err)
			}
			if err := renderer.RenderResult(result); err != nil {
				return err
			}
			if !result.Valid() {
				return fmt.Errorf(MsgErrInvalid, len(result.Errors()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ReportFile, "report", "", MsgFlagReport)
	cmd.Flags().StringVar(&opts.ReportFormat, "report-format", "", MsgFlagReportFormat)

	return cmd
}

func newWatchCmd(g *globals) *cobra.Command {
	var (
		build core.BuildOptions
		dirs  []string
	)

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			first := true
			err = commands.Watch(ctx, commands.WatchOptions{
				Build:     build,
				Workspace: g.workspace(),
				Dirs:      dirs,
				OnBuild: func(result *types.BuildResult, err error) {
					if err != nil {
						_ = renderer.RenderMessage(fmt.Sprintf(MsgWatchBuildFail, err))
					} else {
						_ = renderer.RenderResult(result)
					}
					if first {
						first = false
						_ = renderer.RenderMessage(MsgWatching)
					}
				},
			})
			if err != nil {
				return fmt.Errorf(MsgErrWatch, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&build.DryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&build.Strict, "strict", false, MsgFlagStrict)
	cmd.Flags().BoolVar(&build.NoPostProcess, "no-post-process", false, MsgFlagNoPostProcess)
	cmd.Flags().StringArrayVar(&dirs, "dir", nil, MsgFlagWatchDir)

	return cmd
}

func newInitCmd(g *globals) *cobra.Command {
	var opts commands.InitOptions

	cmd := &cobra.Command{
		Use:     "init [dir]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Dir = args[0]
			}

			result, err := commands.Init(opts)
			if err != nil {
				return fmt.Errorf(MsgErrInit, err)
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, MsgFlagForce)
	cmd.Flags().StringVar(&opts.Format, "format", "yaml", MsgFlagFormat)

	return cmd
}

func newListTemplatesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list-templates",
		Short:   MsgListTemplatesShort,
		Long:    MsgListTemplatesLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			result, err := commands.ListTemplates(commands.ListTemplatesOptions{Workspace: g.workspace()})
			if err != nil {
				return fmt.Errorf(MsgErrListTemplates, err)
			}
			return renderer.RenderResult(result)
		},
	}
}

func newListPluginsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list-plugins",
		Short:   MsgListPluginsShort,
		Long:    MsgListPluginsLong,
		GroupID: "cache",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			result, err := commands.ListPlugins(commands.ListPluginsOptions{Workspace: g.workspace()})
			if err != nil {
				return fmt.Errorf(MsgErrListPlugins, err)
			}
			return renderer.RenderResult(result)
		},
	}
}

func newCleanCmd(g *globals) *cobra.Command {
	var plugin string

	cmd := &cobra.Command{
		Use:     "clean",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		GroupID: "cache",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			result, err := commands.Clean(commands.CleanOptions{
				Workspace: g.workspace(),
				Plugin:    plugin,
			})
			if err != nil {
				return fmt.Errorf(MsgErrClean, err)
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().StringVar(&plugin, "plugin", "", MsgFlagPlugin)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil && helpCmd.Run != nil {
				helpCmd.Run(helpCmd, []string{"topics"})
				return nil
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
