package types

// RenderTask pairs a template reference with an output path.
type RenderTask struct {
	Template string `json:"template" yaml:"template" koanf:"template"`
	Output   string `json:"output" yaml:"output" koanf:"output"`
}

// RenderedFile is a successfully rendered task.
type RenderedFile struct {
	Task    RenderTask `json:"task"`
	Plugin  string     `json:"plugin"`
	Source  string     `json:"source"`
	Content []byte     `json:"-"`
}

// RenderFailure is a task that could not be rendered.
type RenderFailure struct {
	Task RenderTask `json:"task"`
	Err  error      `json:"-"`
}

// Message returns the failure text for reports.
func (f RenderFailure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// RenderReport holds the outcome of a render batch. Rendered keeps task
// order; Outputs maps each output path to its rendered bytes.
type RenderReport struct {
	Rendered []RenderedFile  `json:"rendered"`
	Failures []RenderFailure `json:"failures,omitempty"`
}

// Outputs returns output path to rendered content.
func (r *RenderReport) Outputs() map[string][]byte {
	out := make(map[string][]byte, len(r.Rendered))
	for _, f := range r.Rendered {
		out[f.Task.Output] = f.Content
	}
	return out
}

// OK reports whether every task rendered.
func (r *RenderReport) OK() bool {
	return len(r.Failures) == 0
}
