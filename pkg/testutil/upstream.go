// pkg/testutil/upstream.go
// DEPENDENCIES: go-git, a git binary for local clones
// PURPOSE: Real on-disk repositories used as clone sources in tests

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when no git binary is available. Local-path
// clones and the CLI backend both need it.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// Upstream is a non-bare repository standing in for a plugin remote.
type Upstream struct {
	t    *testing.T
	Dir  string
	repo *gogit.Repository
	when time.Time
}

// NewUpstream initialises a repository on branch main in a temp dir.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err)
	return &Upstream{t: t, Dir: dir, repo: repo, when: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Write stages files relative to the repository root.
func (u *Upstream) Write(files map[string]string) *Upstream {
	u.t.Helper()
	wt, err := u.repo.Worktree()
	require.NoError(u.t, err)
	for rel, content := range files {
		path := filepath.Join(u.Dir, filepath.FromSlash(rel))
		require.NoError(u.t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(u.t, os.WriteFile(path, []byte(content), 0644))
		_, err := wt.Add(filepath.ToSlash(rel))
		require.NoError(u.t, err)
	}
	return u
}

// Commit records staged changes and returns the commit id.
func (u *Upstream) Commit(msg string) string {
	u.t.Helper()
	wt, err := u.repo.Worktree()
	require.NoError(u.t, err)
	u.when = u.when.Add(time.Minute)
	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author:            &object.Signature{Name: "Forge Test", Email: "test@example.com", When: u.when},
		AllowEmptyCommits: true,
	})
	require.NoError(u.t, err)
	return hash.String()
}

// Tag creates a lightweight tag at HEAD.
func (u *Upstream) Tag(name string) {
	u.t.Helper()
	head, err := u.repo.Head()
	require.NoError(u.t, err)
	_, err = u.repo.CreateTag(name, head.Hash(), nil)
	require.NoError(u.t, err)
}

// AnnotatedTag creates an annotated tag at HEAD.
func (u *Upstream) AnnotatedTag(name string) {
	u.t.Helper()
	head, err := u.repo.Head()
	require.NoError(u.t, err)
	_, err = u.repo.CreateTag(name, head.Hash(), &gogit.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Forge Test", Email: "test@example.com", When: u.when},
		Message: name,
	})
	require.NoError(u.t, err)
}

// Branch checks out branch, creating it from HEAD when needed.
func (u *Upstream) Branch(name string) {
	u.t.Helper()
	wt, err := u.repo.Worktree()
	require.NoError(u.t, err)
	ref := plumbing.NewBranchReferenceName(name)
	_, err = u.repo.Reference(ref, false)
	require.NoError(u.t, wt.Checkout(&gogit.CheckoutOptions{Branch: ref, Create: err != nil}))
}
