package generators

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solitary-project/forge/pkg/types"
	"github.com/solitary-project/forge/pkg/validation"
)

var nixPackagePattern = regexp.MustCompile(`^(nixpkgs\.)?[a-zA-Z][a-zA-Z0-9_-]*$`)

// Nix re-indents Nix expressions by brace depth. For devenv.nix it also
// enables direnv integration when the template did not.
type Nix struct {
	fileType      string
	IncludeDirenv bool
}

// NewNix returns a Nix generator for one of the Nix file types.
func NewNix(fileType string, includeDirenv bool) *Nix {
	return &Nix{fileType: fileType, IncludeDirenv: includeDirenv}
}

func (n *Nix) FileType() string { return n.fileType }

func (n *Nix) PostProcess(content []byte, _ map[string]interface{}) ([]byte, error) {
	out := string(content)
	if n.IncludeDirenv && !strings.Contains(out, "direnv.enable") {
		lines := strings.Split(out, "\n")
		at := 1
		if len(lines) < at {
			at = len(lines)
		}
		lines = append(lines[:at], append([]string{"direnv.enable = true;"}, lines[at:]...)...)
		out = strings.Join(lines, "\n")
	}
	return []byte(formatNix(out)), nil
}

func (n *Nix) Validator() validation.Validator { return NixValidator{} }

// formatNix indents two spaces per open brace. Lines ending in '{' open a
// level, lines starting with '}' close one.
func formatNix(content string) string {
	lines := strings.Split(content, "\n")
	depth := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "}") && depth > 0 {
			depth--
		}
		if trimmed == "" {
			lines[i] = ""
		} else {
			lines[i] = strings.Repeat("  ", depth) + trimmed
		}
		if strings.HasSuffix(trimmed, "{") {
			depth++
		}
	}
	return strings.Join(lines, "\n")
}

// NixValidator checks Nix-related variables.
type NixValidator struct{}

func (NixValidator) Name() string { return "nix" }

func (v NixValidator) Validate(in *validation.Input) []types.Finding {
	vars := in.Variables()
	var out []types.Finding
	if _, ok := vars["project_name"]; !ok {
		out = append(out, validation.Warnf(v.Name(), "project_name recommended for Nix environments"))
	}
	if pkgs, ok := vars["nix_packages"].([]interface{}); ok {
		for _, p := range pkgs {
			name := fmt.Sprint(p)
			if !nixPackagePattern.MatchString(name) {
				out = append(out, validation.Warnf(v.Name(), "potentially invalid Nix package name: %s", name))
			}
		}
	}
	return out
}
