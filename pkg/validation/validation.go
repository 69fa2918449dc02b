// Package validation runs composable checks over a loaded project:
// configuration, resolved plugins, template availability and output paths.
// Validators never fail outright; they report findings with a severity and
// the caller decides what an error-severity finding means.
package validation

import (
	"fmt"

	"github.com/solitary-project/forge/pkg/config"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/paths"
	"github.com/solitary-project/forge/pkg/types"
)

// Input is what validators inspect. Fields a validator does not need may
// be nil.
type Input struct {
	Config   *config.Config
	Plugins  []*types.CachedPlugin
	Failures []types.PluginFailure
	Paths    paths.Paths
	FS       types.FS

	// Data is the template-facing render context.
	Data map[string]interface{}
}

// Variables returns the variables of the render context, falling back to
// the configuration.
func (in *Input) Variables() map[string]interface{} {
	if in.Data != nil {
		if vars, ok := in.Data[types.ContextKeyVariables].(map[string]interface{}); ok {
			return vars
		}
	}
	if in.Config != nil && in.Config.Variables != nil {
		return in.Config.Variables
	}
	return map[string]interface{}{}
}

// Validator is a single named check.
type Validator interface {
	Name() string
	Validate(in *Input) []types.Finding
}

// System runs validators in the order they were added.
type System struct {
	validators []Validator
}

// NewSystem returns a System running validators.
func NewSystem(validators ...Validator) *System {
	return &System{validators: validators}
}

// Default returns the project-level validators.
func Default() *System {
	return NewSystem(
		ConfigValidator{},
		PluginValidator{},
		TemplateValidator{},
		OutputPathValidator{},
		DependencyValidator{},
	)
}

// Add appends validators.
func (s *System) Add(validators ...Validator) *System {
	s.validators = append(s.validators, validators...)
	return s
}

// Names returns validator names in run order.
func (s *System) Names() []string {
	names := make([]string, len(s.validators))
	for i, v := range s.validators {
		names[i] = v.Name()
	}
	return names
}

// Run executes every validator and collects their findings.
func (s *System) Run(in *Input) *types.ValidateResult {
	logger := logging.GetLogger("validation")
	result := &types.ValidateResult{Findings: []types.Finding{}}
	if in.Paths != nil {
		result.ProjectRoot = in.Paths.ProjectRoot()
	}

	for _, v := range s.validators {
		findings := v.Validate(in)
		logger.Debug().
			Str("validator", v.Name()).
			Int("findings", len(findings)).
			Msg("Validator finished")
		result.Findings = append(result.Findings, findings...)
	}
	return result
}

func errorf(validator, format string, args ...interface{}) types.Finding {
	return types.Finding{Validator: validator, Severity: types.SeverityError, Message: fmt.Sprintf(format, args...)}
}

func warnf(validator, format string, args ...interface{}) types.Finding {
	return types.Finding{Validator: validator, Severity: types.SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Errorf returns an error finding for validators defined outside this package.
func Errorf(validator, format string, args ...interface{}) types.Finding {
	return errorf(validator, format, args...)
}

// Warnf returns a warning finding for validators defined outside this package.
func Warnf(validator, format string, args ...interface{}) types.Finding {
	return warnf(validator, format, args...)
}
