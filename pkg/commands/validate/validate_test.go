// pkg/commands/validate/validate_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: testutil.Project, FakeSource
// PURPOSE: Test the validate command findings and JUnit report

package validate_test

import (
	"os"
	"strings"
	"testing"

	"github.com/solitary-project/forge/pkg/commands/validate"
	"github.com/solitary-project/forge/pkg/core"
	"github.com/solitary-project/forge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanProject(t *testing.T) {
	p := testutil.NewDefaultProject(t)

	result, err := validate.Validate(validate.ValidateOptions{
		Workspace: core.Options{StartDir: p.Root, Source: p.Source},
	})
	require.NoError(t, err)
	assert.True(t, result.Valid(), "%v", result.Errors())
	assert.NoFileExists(t, p.Path("Dockerfile"))
}

func TestValidate_ReportsProblems(t *testing.T) {
	p := testutil.NewProject(t, `variables:
  base_image: "Not An Image!"
plugins:
  - name: core
    git: https://git.example/core.git
render:
  - template: Dockerfile.j2
    output: Dockerfile
  - template: missing.j2
    output: Dockerfile
`)
	p.Source.Remote("https://git.example/core.git").Push("main", testutil.PluginFiles(
		testutil.Manifest("core", "1.0.0", "base"),
		map[string]string{"Dockerfile.j2": "FROM {{ variables.base_image }}"},
	))
	reportPath := p.Path("validate.xml")

	result, err := validate.Validate(validate.ValidateOptions{
		Workspace:  core.Options{StartDir: p.Root, Source: p.Source},
		ReportFile: reportPath,
	})
	require.NoError(t, err)
	assert.False(t, result.Valid())

	byValidator := map[string][]string{}
	for _, f := range result.Findings {
		byValidator[f.Validator] = append(byValidator[f.Validator], string(f.Severity)+": "+f.Message)
	}
	assert.Contains(t, byValidator, "templates")
	assert.Contains(t, byValidator, "outputs")
	assert.Contains(t, byValidator, "dockerfile")
	assert.Contains(t, byValidator, "dependencies")
	assert.Contains(t, byValidator, "config", "project_name is recommended")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<testsuites"))
}
