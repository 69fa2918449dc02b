// pkg/git/source_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: git binary, temp directories
// PURPOSE: Exercise both backends against real local repositories

package git_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/git"
	"github.com/solitary-project/forge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends() map[string]git.Source {
	return map[string]git.Source{
		git.BackendGoGit: git.NewGoGit(git.Options{}),
		git.BackendCLI:   git.NewCLI(git.Options{}),
	}
}

func seed(t *testing.T) (*testutil.Upstream, string) {
	up := testutil.NewUpstream(t)
	up.Write(map[string]string{
		"plugin.yml":              "name: core\nversion: 1.0.0\n",
		"templates/Dockerfile.j2": "FROM {{ variables.base_image }}\n",
	})
	first := up.Commit("initial")
	up.Tag("v1.0.0")
	return up, first
}

func TestEnsureCloned_AndCheckout(t *testing.T) {
	testutil.RequireGit(t)

	for name, src := range backends() {
		t.Run(name, func(t *testing.T) {
			up, first := seed(t)
			dest := filepath.Join(t.TempDir(), "plugins", "core")

			require.NoError(t, src.EnsureCloned(up.Dir, dest))
			require.NoError(t, src.UpdateAndCheckout(dest, "main"))

			rev, err := src.CurrentRevision(dest)
			require.NoError(t, err)
			assert.Equal(t, first, rev)

			data, err := os.ReadFile(filepath.Join(dest, "templates", "Dockerfile.j2"))
			require.NoError(t, err)
			assert.Contains(t, string(data), "variables.base_image")

			// Idempotent on an existing checkout of the same source.
			require.NoError(t, src.EnsureCloned(up.Dir, dest))

			state, err := src.Inspect(dest)
			require.NoError(t, err)
			assert.Equal(t, git.StateClean, state)
		})
	}
}

func TestUpdateAndCheckout_BranchMovesTagStays(t *testing.T) {
	testutil.RequireGit(t)

	for name, src := range backends() {
		t.Run(name, func(t *testing.T) {
			up, first := seed(t)
			dest := filepath.Join(t.TempDir(), "core")
			require.NoError(t, src.EnsureCloned(up.Dir, dest))

			up.Write(map[string]string{"templates/extra.j2": "extra"})
			second := up.Commit("second")

			// Tag pin stays on the tagged commit.
			require.NoError(t, src.UpdateAndCheckout(dest, "v1.0.0"))
			rev, err := src.CurrentRevision(dest)
			require.NoError(t, err)
			assert.Equal(t, first, rev)

			// Branch pin follows the remote tip.
			require.NoError(t, src.UpdateAndCheckout(dest, "main"))
			rev, err = src.CurrentRevision(dest)
			require.NoError(t, err)
			assert.Equal(t, second, rev)

			// Commit pin.
			require.NoError(t, src.UpdateAndCheckout(dest, first[:12]))
			rev, err = src.CurrentRevision(dest)
			require.NoError(t, err)
			assert.Equal(t, first, rev)
		})
	}
}

func TestUpdateAndCheckout_AnnotatedTagAndNewBranch(t *testing.T) {
	testutil.RequireGit(t)

	for name, src := range backends() {
		t.Run(name, func(t *testing.T) {
			up, _ := seed(t)
			dest := filepath.Join(t.TempDir(), "core")
			require.NoError(t, src.EnsureCloned(up.Dir, dest))

			up.Branch("feature")
			up.Write(map[string]string{"templates/feature.j2": "feature"})
			feature := up.Commit("feature work")
			up.AnnotatedTag("v2.0.0")

			require.NoError(t, src.UpdateAndCheckout(dest, "feature"))
			rev, err := src.CurrentRevision(dest)
			require.NoError(t, err)
			assert.Equal(t, feature, rev)

			require.NoError(t, src.UpdateAndCheckout(dest, "v2.0.0"))
			rev, err = src.CurrentRevision(dest)
			require.NoError(t, err)
			assert.Equal(t, feature, rev, "annotated tags resolve to their commit")
		})
	}
}

func TestUpdateAndCheckout_Errors(t *testing.T) {
	testutil.RequireGit(t)

	for name, src := range backends() {
		t.Run(name, func(t *testing.T) {
			up, _ := seed(t)
			dest := filepath.Join(t.TempDir(), "core")
			require.NoError(t, src.EnsureCloned(up.Dir, dest))

			err := src.UpdateAndCheckout(dest, "no-such-ref")
			assert.True(t, errors.IsGitError(err), "got %v", err)

			err = src.UpdateAndCheckout(dest, "--upload-pack=evil")
			assert.True(t, errors.IsGitError(err), "got %v", err)

			require.NoError(t, os.WriteFile(filepath.Join(dest, "plugin.yml"), []byte("edited"), 0644))
			err = src.UpdateAndCheckout(dest, "main")
			assert.True(t, errors.IsErrorCode(err, errors.ErrPluginState), "got %v", err)

			state, err := src.Inspect(dest)
			require.NoError(t, err)
			assert.Equal(t, git.StateDirty, state)
		})
	}
}

func TestEnsureCloned_RefusesForeignDirectories(t *testing.T) {
	testutil.RequireGit(t)

	for name, src := range backends() {
		t.Run(name, func(t *testing.T) {
			up, _ := seed(t)
			other, _ := seed(t)

			// Plain directory with user data.
			plain := filepath.Join(t.TempDir(), "core")
			require.NoError(t, os.MkdirAll(plain, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(plain, "notes.txt"), []byte("keep me"), 0644))

			err := src.EnsureCloned(up.Dir, plain)
			assert.True(t, errors.IsErrorCode(err, errors.ErrGitOperation), "got %v", err)
			_, statErr := os.Stat(filepath.Join(plain, "notes.txt"))
			assert.NoError(t, statErr, "user data must survive")

			state, err := src.Inspect(plain)
			require.NoError(t, err)
			assert.Equal(t, git.StateNotRepository, state)

			// Checkout of a different source.
			dest := filepath.Join(t.TempDir(), "core")
			require.NoError(t, src.EnsureCloned(up.Dir, dest))
			err = src.EnsureCloned(other.Dir, dest)
			assert.True(t, errors.IsErrorCode(err, errors.ErrGitOperation), "got %v", err)

			_, err = src.CurrentRevision(plain)
			assert.True(t, errors.IsGitError(err))
		})
	}
}

func TestEnsureCloned_FailedCloneLeavesNothing(t *testing.T) {
	testutil.RequireGit(t)

	for name, src := range backends() {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "core")
			err := src.EnsureCloned(filepath.Join(t.TempDir(), "missing-repo"), dest)
			require.Error(t, err)
			assert.True(t, errors.IsGitError(err))

			_, statErr := os.Stat(dest)
			assert.True(t, os.IsNotExist(statErr))

			state, err := src.Inspect(dest)
			require.NoError(t, err)
			assert.Equal(t, git.StateMissing, state)
		})
	}
}
