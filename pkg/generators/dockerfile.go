package generators

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solitary-project/forge/pkg/types"
	"github.com/solitary-project/forge/pkg/validation"
)

// DefaultHealthcheck is inserted by Dockerfile when Healthcheck is set and
// the file has none.
const DefaultHealthcheck = "# Health check\n" +
	"HEALTHCHECK --interval=30s --timeout=3s --retries=3 \\\n" +
	"  CMD curl -f http://localhost:8080/health || exit 1"

var dockerImagePattern = regexp.MustCompile(`(?i)^[a-z0-9]+([._-][a-z0-9]+)*(/[a-z0-9]+([._-][a-z0-9]+)*)*(:[a-z0-9][\w.-]{0,127})?$`)

// Dockerfile folds consecutive single-line RUN instructions into one layer
// and optionally adds a healthcheck.
type Dockerfile struct {
	OptimizeLayers bool
	Healthcheck    bool
}

// NewDockerfile returns the default Dockerfile generator.
func NewDockerfile() *Dockerfile {
	return &Dockerfile{OptimizeLayers: true}
}

func (d *Dockerfile) FileType() string { return TypeDockerfile }

func (d *Dockerfile) PostProcess(content []byte, _ map[string]interface{}) ([]byte, error) {
	out := string(content)
	if d.OptimizeLayers {
		out = foldRuns(out)
	}
	if d.Healthcheck && !strings.Contains(out, "HEALTHCHECK") {
		out = insertHealthcheck(out)
	}
	return []byte(out), nil
}

func (d *Dockerfile) Validator() validation.Validator { return DockerfileValidator{} }

// foldRuns joins runs of consecutive RUN lines with &&. A RUN that already
// continues onto the next line is left alone.
func foldRuns(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var pending []string

	flush := func() {
		switch len(pending) {
		case 0:
		case 1:
			out = append(out, "RUN "+pending[0])
		default:
			out = append(out, "RUN "+strings.Join(pending, " && \\\n    "))
		}
		pending = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "RUN ") && !strings.HasSuffix(trimmed, "\\") {
			pending = append(pending, strings.TrimSpace(trimmed[len("RUN "):]))
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return strings.Join(out, "\n")
}

func insertHealthcheck(content string) string {
	lines := strings.Split(content, "\n")
	at := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "CMD") || strings.HasPrefix(trimmed, "ENTRYPOINT") {
			at = i
			break
		}
	}
	if at == len(lines) && at > 0 && lines[at-1] == "" {
		at--
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, DefaultHealthcheck)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}

// DockerfileValidator checks the variables a Dockerfile template relies on.
type DockerfileValidator struct{}

func (DockerfileValidator) Name() string { return "dockerfile" }

func (v DockerfileValidator) Validate(in *validation.Input) []types.Finding {
	vars := in.Variables()
	var out []types.Finding

	raw, ok := vars["base_image"]
	image := strings.TrimSpace(fmt.Sprint(raw))
	switch {
	case !ok:
		out = append(out, validation.Errorf(v.Name(), "missing required variable: base_image"))
	case raw == nil || image == "":
		out = append(out, validation.Errorf(v.Name(), "base_image cannot be empty"))
	case !dockerImagePattern.MatchString(image):
		out = append(out, validation.Errorf(v.Name(), "invalid Docker image format: %s", image))
	}

	if workdir, ok := vars["workdir"].(string); ok && !strings.HasPrefix(workdir, "/") {
		out = append(out, validation.Warnf(v.Name(), "workdir should be an absolute path"))
	}
	return out
}
