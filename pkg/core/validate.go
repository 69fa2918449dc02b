package core

import (
	"github.com/solitary-project/forge/pkg/generators"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/plugin"
	"github.com/solitary-project/forge/pkg/render"
	"github.com/solitary-project/forge/pkg/types"
	"github.com/solitary-project/forge/pkg/validation"
)

const renderValidator = "render"

// Validate resolves plugins and checks the project without writing any
// output. Plugin failures are always collected so every problem is reported
// in one pass. Templates are rendered strictly to surface render errors.
func (w *Workspace) Validate() (*types.ValidateResult, error) {
	logger := logging.GetLogger("core.validate")
	done := logging.LogOperationStart(logger, "validate")
	defer done()

	resolver := w.Resolver()
	resolver.Policy = plugin.CollectAll
	res, err := resolver.Resolve(w.Config.Plugins)
	if err != nil {
		return nil, err
	}
	rctx, err := w.Context(res)
	if err != nil {
		return nil, err
	}

	system := validation.Default()
	for _, gen := range generators.Default().DetectAll(w.Config.TemplateNames()) {
		system.Add(gen.Validator())
	}

	result := system.Run(&validation.Input{
		Config:   w.Config,
		Plugins:  res.Plugins,
		Failures: res.Failures,
		Paths:    w.Paths,
		FS:       w.FS,
		Data:     rctx.Data(),
	})

	// Missing templates are already reported by the templates validator.
	locator := render.NewLocator(w.FS, res.Plugins)
	pipeline := render.New(locator, render.NewPongo2Engine(locator))
	for _, task := range w.Config.Render {
		if _, err := locator.Find(task.Template); err != nil {
			continue
		}
		if _, err := pipeline.Run([]types.RenderTask{task}, rctx, render.Options{Strict: true}); err != nil {
			result.Findings = append(result.Findings,
				validation.Errorf(renderValidator, "%s: %v", task.Template, err))
		}
	}

	logger.Info().
		Int("errors", len(result.Errors())).
		Int("warnings", len(result.Warnings())).
		Msg("Validation finished")
	return result, nil
}
