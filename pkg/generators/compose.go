package generators

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/solitary-project/forge/pkg/types"
	"github.com/solitary-project/forge/pkg/validation"
	"gopkg.in/yaml.v3"
)

var containerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Compose adds development defaults to every service of a compose file:
// a restart policy when none is set, and an interactive tty.
type Compose struct {
	DevelopmentMode bool
}

// NewCompose returns the default compose generator.
func NewCompose() *Compose {
	return &Compose{DevelopmentMode: true}
}

func (c *Compose) FileType() string { return TypeCompose }

// PostProcess leaves content untouched when it is not a YAML mapping, so
// a broken template is reported by whoever consumes the file, not here.
func (c *Compose) PostProcess(content []byte, _ map[string]interface{}) ([]byte, error) {
	if !c.DevelopmentMode {
		return content, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil || len(doc.Content) == 0 {
		return content, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return content, nil
	}
	services := mappingValue(root, "services")
	if services == nil || services.Kind != yaml.MappingNode {
		return content, nil
	}
	for i := 1; i < len(services.Content); i += 2 {
		svc := services.Content[i]
		if svc.Kind != yaml.MappingNode {
			continue
		}
		if mappingValue(svc, "restart") == nil {
			setScalar(svc, "restart", "!!str", "unless-stopped")
		}
		setScalar(svc, "stdin_open", "!!bool", "true")
		setScalar(svc, "tty", "!!bool", "true")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encode compose file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode compose file: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Compose) Validator() validation.Validator { return ComposeValidator{} }

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setScalar(m *yaml.Node, key, tag, value string) {
	if v := mappingValue(m, key); v != nil {
		v.Kind, v.Tag, v.Value, v.Style, v.Content = yaml.ScalarNode, tag, value, 0, nil
		return
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
	)
}

// ComposeValidator checks container_name.
type ComposeValidator struct{}

func (ComposeValidator) Name() string { return "compose" }

func (v ComposeValidator) Validate(in *validation.Input) []types.Finding {
	raw, ok := in.Variables()["container_name"]
	if !ok {
		return []types.Finding{validation.Errorf(v.Name(), "missing required variable: container_name")}
	}
	name := fmt.Sprint(raw)
	if !containerNamePattern.MatchString(name) {
		return []types.Finding{validation.Errorf(v.Name(), "invalid container name format: %s", name)}
	}
	return nil
}
