// pkg/output/writer_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: afero in-memory filesystem
// PURPOSE: Test scoped writes, dry runs and overwrite handling

package output_test

import (
	"testing"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/filesystem"
	"github.com/solitary-project/forge/pkg/output"
	"github.com/solitary-project/forge/pkg/paths"
	"github.com/solitary-project/forge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (types.FS, paths.Paths) {
	t.Helper()
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/project", 0755))
	p, err := paths.New(paths.Options{ConfigPath: "/project/.forge.yml"})
	require.NoError(t, err)
	return fsys, p
}

func TestWrite(t *testing.T) {
	fsys, p := setup(t)
	w := output.NewWriter(fsys, p, output.Options{})

	res, err := w.Write("docker/Dockerfile", []byte("FROM alpine"))
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, "/project/docker/Dockerfile", res.Path)
	assert.Equal(t, 11, res.Bytes)

	data, err := fsys.ReadFile("/project/docker/Dockerfile")
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine", string(data))

	_, err = fsys.Stat("/project/docker/Dockerfile.forge-tmp")
	assert.Error(t, err, "temporary file is renamed away")
}

func TestWrite_Unchanged(t *testing.T) {
	fsys, p := setup(t)
	require.NoError(t, fsys.WriteFile("/project/Dockerfile", []byte("same"), 0644))

	res, err := output.NewWriter(fsys, p, output.Options{}).Write("Dockerfile", []byte("same"))
	require.NoError(t, err)
	assert.True(t, res.Unchanged)
	assert.False(t, res.Written)
}

func TestWrite_DryRun(t *testing.T) {
	fsys, p := setup(t)
	w := output.NewWriter(fsys, p, output.Options{DryRun: true})
	assert.True(t, w.DryRun())

	res, err := w.Write("Dockerfile", []byte("FROM alpine"))
	require.NoError(t, err)
	assert.False(t, res.Written)

	_, err = fsys.Stat("/project/Dockerfile")
	assert.Error(t, err)
}

func TestWrite_Errors(t *testing.T) {
	fsys, p := setup(t)
	require.NoError(t, fsys.WriteFile("/project/existing", []byte("old"), 0644))
	require.NoError(t, fsys.MkdirAll("/project/adir", 0755))

	_, err := output.NewWriter(fsys, p, output.Options{}).Write("../escape", []byte("x"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutputEscape))

	_, err = output.NewWriter(fsys, p, output.Options{}).Write("/etc/passwd", []byte("x"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutputEscape))

	_, err = output.NewWriter(fsys, p, output.Options{NoOverwrite: true}).Write("existing", []byte("new"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutputWrite))

	_, err = output.NewWriter(fsys, p, output.Options{}).Write("adir", []byte("new"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutputWrite))
}
