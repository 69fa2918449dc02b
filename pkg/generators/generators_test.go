// pkg/generators/generators_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: yaml.v3
// PURPOSE: Test generator detection, post-processing and file-type validators

package generators_test

import (
	"testing"

	"github.com/solitary-project/forge/pkg/generators"
	"github.com/solitary-project/forge/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDetect(t *testing.T) {
	reg := generators.Default()

	tests := []struct {
		template string
		want     string
	}{
		{"Dockerfile.j2", generators.TypeDockerfile},
		{"docker/Dockerfile.dev.j2", generators.TypeDockerfile},
		{"docker-compose.yml.j2", generators.TypeCompose},
		{"devenv.nix.j2", generators.TypeDevenvNix},
		{"nix/flake.nix.j2", generators.TypeFlakeNix},
		{"home.nix.j2", generators.TypeHomeNix},
		{"README.md.j2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			g, ok := reg.Detect(tt.template)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, g.FileType())
		})
	}

	all := reg.DetectAll([]string{"Dockerfile.j2", "README.md.j2", "Dockerfile.dev.j2", "compose.yml.j2"})
	require.Len(t, all, 2)
	assert.Equal(t, generators.TypeDockerfile, all[0].FileType())
	assert.Equal(t, generators.TypeCompose, all[1].FileType())

	assert.Equal(t, []string{"dockerfile", "compose", "devenv_nix", "flake_nix", "home_nix"}, reg.Types())
}

func TestDockerfile_FoldsRuns(t *testing.T) {
	in := "FROM nixos/nix:latest\nRUN nix-channel --update\nRUN nix-env -iA nixpkgs.git\nWORKDIR /workspace\nRUN echo done\n"

	out, err := generators.NewDockerfile().PostProcess([]byte(in), nil)
	require.NoError(t, err)
	assert.Equal(t,
		"FROM nixos/nix:latest\n"+
			"RUN nix-channel --update && \\\n    nix-env -iA nixpkgs.git\n"+
			"WORKDIR /workspace\n"+
			"RUN echo done\n",
		string(out))
}

func TestDockerfile_KeepsContinuedRun(t *testing.T) {
	in := "RUN apt-get update && \\\n    apt-get install -y git\nRUN echo ok"
	out, err := generators.NewDockerfile().PostProcess([]byte(in), nil)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestDockerfile_Healthcheck(t *testing.T) {
	g := &generators.Dockerfile{Healthcheck: true}

	out, err := g.PostProcess([]byte("FROM alpine\nCMD [\"sh\"]"), nil)
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine\n"+generators.DefaultHealthcheck+"\nCMD [\"sh\"]", string(out))

	existing := "FROM alpine\nHEALTHCHECK NONE\n"
	out, err = g.PostProcess([]byte(existing), nil)
	require.NoError(t, err)
	assert.Equal(t, existing, string(out))
}

func TestCompose_DevelopmentDefaults(t *testing.T) {
	in := `services:
  app:
    image: nixos/nix:latest
    restart: "no"
  db:
    image: postgres
`
	out, err := generators.NewCompose().PostProcess([]byte(in), nil)
	require.NoError(t, err)

	var got struct {
		Services map[string]map[string]interface{} `yaml:"services"`
	}
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, "no", got.Services["app"]["restart"])
	assert.Equal(t, "unless-stopped", got.Services["db"]["restart"])
	assert.Equal(t, true, got.Services["db"]["tty"])
	assert.Equal(t, true, got.Services["app"]["stdin_open"])
}

func TestCompose_InvalidYAMLUntouched(t *testing.T) {
	in := []byte("services: [unclosed")
	out, err := generators.NewCompose().PostProcess(in, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNix_DirenvAndIndentation(t *testing.T) {
	in := "{ pkgs, ... }: {\npackages = [ pkgs.git ];\nenv = {\nFOO = \"bar\";\n};\n}"
	out, err := generators.NewNix(generators.TypeDevenvNix, true).PostProcess([]byte(in), nil)
	require.NoError(t, err)
	assert.Equal(t,
		"{ pkgs, ... }: {\n"+
			"  direnv.enable = true;\n"+
			"  packages = [ pkgs.git ];\n"+
			"  env = {\n"+
			"    FOO = \"bar\";\n"+
			"  };\n"+
			"}",
		string(out))

	out, err = generators.NewNix(generators.TypeFlakeNix, false).PostProcess([]byte("{\nx = 1;\n}"), nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  x = 1;\n}", string(out))
}

func inputWith(vars map[string]interface{}) *validation.Input {
	return &validation.Input{Data: map[string]interface{}{"variables": vars}}
}

func TestFileTypeValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator validation.Validator
		vars      map[string]interface{}
		errors    int
		warnings  int
	}{
		{"dockerfile ok", generators.DockerfileValidator{}, map[string]interface{}{"base_image": "nixos/nix:latest", "workdir": "/workspace"}, 0, 0},
		{"dockerfile missing image", generators.DockerfileValidator{}, map[string]interface{}{}, 1, 0},
		{"dockerfile empty image", generators.DockerfileValidator{}, map[string]interface{}{"base_image": ""}, 1, 0},
		{"dockerfile bad image", generators.DockerfileValidator{}, map[string]interface{}{"base_image": "Not An Image"}, 1, 0},
		{"dockerfile relative workdir", generators.DockerfileValidator{}, map[string]interface{}{"base_image": "alpine:3.19", "workdir": "src"}, 0, 1},
		{"compose ok", generators.ComposeValidator{}, map[string]interface{}{"container_name": "demo-dev"}, 0, 0},
		{"compose missing", generators.ComposeValidator{}, map[string]interface{}{}, 1, 0},
		{"compose invalid", generators.ComposeValidator{}, map[string]interface{}{"container_name": "-bad name"}, 1, 0},
		{"nix ok", generators.NixValidator{}, map[string]interface{}{"project_name": "demo", "nix_packages": []interface{}{"git", "nixpkgs.ripgrep"}}, 0, 0},
		{"nix warnings", generators.NixValidator{}, map[string]interface{}{"nix_packages": []interface{}{"9lives"}}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validation.NewSystem(tt.validator).Run(inputWith(tt.vars))
			assert.Len(t, result.Errors(), tt.errors, "%v", result.Findings)
			assert.Len(t, result.Warnings(), tt.warnings, "%v", result.Findings)
		})
	}
}

func TestValidatorsFromGenerators(t *testing.T) {
	reg := generators.Default()
	for _, fileType := range reg.Types() {
		g, err := reg.Create(fileType)
		require.NoError(t, err)
		assert.NotNil(t, g.Validator(), fileType)
	}
	assert.Len(t, generators.ComposeValidator{}.Validate(inputWith(nil)), 1)
}
