package core

import (
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/generators"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/output"
	"github.com/solitary-project/forge/pkg/render"
	"github.com/solitary-project/forge/pkg/types"
)

// BuildOptions tune a single build.
type BuildOptions struct {
	// DryRun renders everything but writes nothing.
	DryRun bool

	// Strict stops at the first failing task and writes nothing.
	// settings.strict turns it on as well.
	Strict bool

	// NoPostProcess skips generator post-processing even when
	// settings.post_process is on.
	NoPostProcess bool

	// Generators replaces the built-in generator registry.
	Generators *generators.Registry
}

// Build resolves plugins, renders every task and writes the results.
// Under the abort policy a plugin failure is returned as the error. Render
// and write failures are part of the result unless the build is strict; a
// strict build checks every output path before it writes anything.
func (w *Workspace) Build(opts BuildOptions) (*types.BuildResult, error) {
	logger := logging.GetLogger("core.build")
	done := logging.LogOperationStart(logger, "build")
	defer done()

	result := &types.BuildResult{
		BuildID:     uuid.NewString(),
		ProjectRoot: w.Paths.ProjectRoot(),
		Environment: w.Environment,
		DryRun:      opts.DryRun,
		Written:     []types.WrittenFile{},
		StartedAt:   time.Now(),
	}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	prep, err := w.Prepare()
	if err != nil {
		return nil, err
	}
	result.Plugins = prep.Resolution.Plugins
	result.PluginFailures = prep.Resolution.Failures

	strict := opts.Strict || w.Config.Settings.Strict
	report, err := prep.Pipeline.Run(w.Config.Render, prep.Context, render.Options{Strict: strict})
	if err != nil {
		return nil, err
	}

	rendered, failures := w.postProcess(report, prep.Context, opts)
	result.RenderFailures = append(report.Failures, failures...)
	if strict && len(failures) > 0 {
		return nil, failures[0].Err
	}

	if strict {
		for _, f := range rendered {
			if _, err := w.Paths.ResolveOutput(f.file.Task.Output); err != nil {
				return nil, outputFailure(f.file.Task, err).Err
			}
		}
	}

	writer := output.NewWriter(w.FS, w.Paths, output.Options{DryRun: opts.DryRun})
	for _, f := range rendered {
		written, err := writer.Write(f.file.Task.Output, f.file.Content)
		if err != nil {
			logger.Warn().Err(err).Str("output", f.file.Task.Output).Msg("Output not written")
			result.RenderFailures = append(result.RenderFailures, outputFailure(f.file.Task, err))
			continue
		}
		written.Template = f.file.Task.Template
		written.Plugin = f.file.Plugin
		written.Generator = f.generator
		result.Written = append(result.Written, *written)
	}

	logger.Info().
		Str("build", result.BuildID).
		Int("written", len(result.Written)).
		Int("renderFailures", len(result.RenderFailures)).
		Int("pluginFailures", len(result.PluginFailures)).
		Bool("dryRun", opts.DryRun).
		Msg("Build finished")
	return result, nil
}

// outputFailure records a write error against its task. The error keeps
// its OUTPUT_* code.
func outputFailure(task types.RenderTask, err error) types.RenderFailure {
	var coded *errors.ForgeError
	if !stderrors.As(err, &coded) {
		coded = errors.Wrapf(err, errors.ErrOutputWrite, "cannot write %s", task.Output)
	}
	coded.WithDetail("template", task.Template).WithDetail("output", task.Output)
	return types.RenderFailure{Task: task, Err: coded}
}

type processed struct {
	file      types.RenderedFile
	generator string
}

func (w *Workspace) postProcess(report *types.RenderReport, rctx *types.RenderContext, opts BuildOptions) ([]processed, []types.RenderFailure) {
	logger := logging.GetLogger("core.build")

	out := make([]processed, 0, len(report.Rendered))
	if opts.NoPostProcess || !w.Config.Settings.PostProcess {
		for _, f := range report.Rendered {
			out = append(out, processed{file: f})
		}
		return out, nil
	}

	registry := opts.Generators
	if registry == nil {
		registry = generators.Default()
	}
	data := rctx.Data()

	var failures []types.RenderFailure
	for _, f := range report.Rendered {
		gen, ok := registry.Detect(f.Task.Template)
		if !ok {
			out = append(out, processed{file: f})
			continue
		}
		content, err := gen.PostProcess(f.Content, data)
		if err != nil {
			failures = append(failures, types.RenderFailure{
				Task: f.Task,
				Err: errors.Wrapf(err, errors.ErrTemplateRender, "post-processing %s failed", f.Task.Output).
					WithDetail("template", f.Task.Template).
					WithDetail("output", f.Task.Output).
					WithDetail("generator", gen.FileType()),
			})
			continue
		}
		logger.Debug().
			Str("output", f.Task.Output).
			Str("generator", gen.FileType()).
			Msg("Post-processed")
		f.Content = content
		out = append(out, processed{file: f, generator: gen.FileType()})
	}
	return out, failures
}
