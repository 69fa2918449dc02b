package config

import (
	"bytes"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/solitary-project/forge/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPluginName and DefaultPluginSource are written by init.
const (
	DefaultPluginName   = "core"
	DefaultPluginSource = "https://github.com/solitary-project/forge-plugin-core.git"
	DefaultBaseImage    = "nixos/nix:latest"
	DefaultWorkdir      = "/workspace"
)

type starterVariables struct {
	ProjectName   string `yaml:"project_name" toml:"project_name"`
	BaseImage     string `yaml:"base_image" toml:"base_image"`
	ContainerName string `yaml:"container_name" toml:"container_name"`
	Workdir       string `yaml:"workdir" toml:"workdir"`
}

type starterPlugin struct {
	Name    string `yaml:"name" toml:"name"`
	Git     string `yaml:"git" toml:"git"`
	Version string `yaml:"version" toml:"version"`
}

type starterRender struct {
	Template string `yaml:"template" toml:"template"`
	Output   string `yaml:"output" toml:"output"`
}

type starterConfig struct {
	Variables starterVariables `yaml:"variables" toml:"variables"`
	Plugins   []starterPlugin  `yaml:"plugins" toml:"plugins"`
	Render    []starterRender  `yaml:"render" toml:"render"`
}

// Starter returns the content of a new configuration for projectDir.
func Starter(projectDir string, format Format) ([]byte, error) {
	name := filepath.Base(filepath.Clean(projectDir))
	cfg := starterConfig{
		Variables: starterVariables{
			ProjectName:   name,
			BaseImage:     DefaultBaseImage,
			ContainerName: name + "-dev",
			Workdir:       DefaultWorkdir,
		},
		Plugins: []starterPlugin{
			{Name: DefaultPluginName, Git: DefaultPluginSource, Version: "main"},
		},
		Render: []starterRender{
			{Template: "Dockerfile.j2", Output: "Dockerfile"},
			{Template: "docker-compose.yml.j2", Output: "docker-compose.yml"},
		},
	}

	switch format {
	case FormatTOML:
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode starter configuration")
		}
		return data, nil
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode starter configuration")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode starter configuration")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported configuration format %q", format)
	}
}

// FileName returns the configuration file name for format.
func FileName(format Format) string {
	if format == FormatTOML {
		return ".forge.toml"
	}
	return ".forge.yml"
}
