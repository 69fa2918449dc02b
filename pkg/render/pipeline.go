package render

import (
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/types"
)

// Options control a render run.
type Options struct {
	// Strict stops at the first failing task and returns its error.
	Strict bool
}

// Pipeline renders tasks in order against a render context.
type Pipeline struct {
	locator *Locator
	engine  Engine
}

// New returns a Pipeline using locator for lookup and engine for rendering.
func New(locator *Locator, engine Engine) *Pipeline {
	return &Pipeline{locator: locator, engine: engine}
}

// NewPipeline returns a pongo2 pipeline over the templates of plugins.
func NewPipeline(fsys types.FS, plugins []*types.CachedPlugin) *Pipeline {
	locator := NewLocator(fsys, plugins)
	return New(locator, NewPongo2Engine(locator))
}

// Locator returns the pipeline's template locator.
func (p *Pipeline) Locator() *Locator {
	return p.locator
}

// Run renders every task. Without Strict, a failing task is recorded and
// the remaining tasks still run. With Strict, the first failure is returned
// and no report is produced.
func (p *Pipeline) Run(tasks []types.RenderTask, rctx *types.RenderContext, opts Options) (*types.RenderReport, error) {
	logger := logging.GetLogger("render.pipeline")
	if rctx == nil {
		return nil, errors.New(errors.ErrInternal, "render context is nil")
	}

	report := &types.RenderReport{Rendered: make([]types.RenderedFile, 0, len(tasks))}
	for _, task := range tasks {
		file, err := p.renderOne(task, rctx)
		if err != nil {
			if opts.Strict {
				return nil, err
			}
			logger.Warn().Err(err).Str("template", task.Template).Msg("Render failed")
			report.Failures = append(report.Failures, types.RenderFailure{Task: task, Err: err})
			continue
		}
		logger.Debug().
			Str("template", task.Template).
			Str("plugin", file.Plugin).
			Str("output", task.Output).
			Int("bytes", len(file.Content)).
			Msg("Rendered")
		report.Rendered = append(report.Rendered, *file)
	}

	logger.Info().
		Int("rendered", len(report.Rendered)).
		Int("failed", len(report.Failures)).
		Msg("Render complete")
	return report, nil
}

func (p *Pipeline) renderOne(task types.RenderTask, rctx *types.RenderContext) (*types.RenderedFile, error) {
	loc, err := p.locator.Find(task.Template)
	if err != nil {
		return nil, withTask(err, task)
	}
	content, err := p.engine.Render(loc, rctx.Data())
	if err != nil {
		return nil, withTask(err, task)
	}
	return &types.RenderedFile{
		Task:    task,
		Plugin:  loc.Plugin,
		Source:  loc.Path,
		Content: content,
	}, nil
}

func withTask(err error, task types.RenderTask) error {
	if fe, ok := err.(*errors.ForgeError); ok {
		return fe.WithDetail("template", task.Template).WithDetail("output", task.Output)
	}
	return errors.Wrapf(err, errors.ErrTemplateRender, "render %s", task.Template).
		WithDetail("template", task.Template).
		WithDetail("output", task.Output)
}
