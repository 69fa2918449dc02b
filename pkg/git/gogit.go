package git

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
)

// GoGit is a Source backed by go-git. It needs no git binary for remote
// transports.
type GoGit struct {
	opts Options
}

// NewGoGit returns the in-process backend.
func NewGoGit(opts Options) *GoGit {
	return &GoGit{opts: opts}
}

var _ Source = (*GoGit)(nil)

func (g *GoGit) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), g.opts.timeout())
}

// EnsureCloned implements Source.
func (g *GoGit) EnsureCloned(source, dest string) error {
	logger := logging.GetLogger("git.gogit")

	exists, err := checkDest(dest)
	if err != nil {
		return err
	}
	if exists {
		return g.verifyOrigin(source, dest)
	}

	_, statErr := os.Stat(dest)
	created := os.IsNotExist(statErr)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrCacheIO, "cannot create %s", filepath.Dir(dest))
	}

	ctx, cancel := g.context()
	defer cancel()

	logger.Info().Str("source", source).Str("path", dest).Msg("Cloning plugin")
	_, err = gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL:        source,
		RemoteName: gogit.DefaultRemoteName,
		Tags:       gogit.AllTags,
	})
	if err != nil {
		// Only what this call produced is removed.
		if created {
			_ = os.RemoveAll(dest)
		} else {
			clearDir(dest)
		}
		return errors.Wrapf(err, errors.ErrGitOperation, "clone %s", source).
			WithDetail("source", source).
			WithDetail("path", dest)
	}
	return nil
}

func clearDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		_ = os.RemoveAll(filepath.Join(dir, e.Name()))
	}
}

func (g *GoGit) open(dest string) (*gogit.Repository, error) {
	if !hasDotGit(dest) {
		return nil, notRepository(dest)
	}
	repo, err := gogit.PlainOpen(dest)
	if err != nil {
		if stderrors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, notRepository(dest)
		}
		return nil, errors.Wrapf(err, errors.ErrGitOperation, "open %s", dest).WithDetail("path", dest)
	}
	return repo, nil
}

func (g *GoGit) verifyOrigin(source, dest string) error {
	repo, err := g.open(dest)
	if err != nil {
		return err
	}
	remote, err := repo.Remote(gogit.DefaultRemoteName)
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitOperation, "%s has no origin remote", dest).WithDetail("path", dest)
	}
	urls := remote.Config().URLs
	for _, u := range urls {
		if SameSource(u, source) {
			return nil
		}
	}
	return foreignCheckout(dest, strings.Join(urls, ", "), source)
}

// UpdateAndCheckout implements Source.
func (g *GoGit) UpdateAndCheckout(dest, ref string) error {
	logger := logging.GetLogger("git.gogit")

	if err := validateRef(dest, ref); err != nil {
		return err
	}
	repo, err := g.open(dest)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitOperation, "open worktree %s", dest).WithDetail("path", dest)
	}
	status, err := wt.Status()
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitOperation, "status %s", dest).WithDetail("path", dest)
	}
	if !status.IsClean() {
		return dirtyCheckout(dest)
	}

	// Immutable pins already present need no network.
	if hash, ok := localPin(repo, ref); ok {
		logger.Debug().Str("ref", ref).Str("path", dest).Msg("Using local pin without fetch")
		return checkoutHash(wt, dest, hash)
	}

	if err := g.fetch(repo, dest); err != nil {
		return err
	}

	remoteName := plumbing.NewRemoteReferenceName(gogit.DefaultRemoteName, ref)
	if remoteRef, err := repo.Reference(remoteName, true); err == nil {
		branch := plumbing.NewBranchReferenceName(ref)
		if err := repo.Storer.SetReference(plumbing.NewHashReference(branch, remoteRef.Hash())); err != nil {
			return errors.Wrapf(err, errors.ErrGitOperation, "update branch %s", ref).WithDetail("path", dest)
		}
		if err := wt.Checkout(&gogit.CheckoutOptions{Branch: branch, Force: true}); err != nil {
			return errors.Wrapf(err, errors.ErrGitOperation, "checkout %s", ref).
				WithDetail("ref", ref).
				WithDetail("path", dest)
		}
		logger.Debug().Str("branch", ref).Str("commit", remoteRef.Hash().String()).Msg("Checked out branch tip")
		return nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return unknownRef(dest, ref)
	}
	return checkoutHash(wt, dest, *hash)
}

func (g *GoGit) fetch(repo *gogit.Repository, dest string) error {
	ctx, cancel := g.context()
	defer cancel()

	logger := logging.GetLogger("git.gogit")
	logger.Info().Str("path", dest).Msg("Fetching plugin")
	err := repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: gogit.DefaultRemoteName,
		RefSpecs: []gitconfig.RefSpec{
			"+refs/heads/*:refs/remotes/origin/*",
			"+refs/tags/*:refs/tags/*",
		},
		Force: true,
	})
	if err != nil && !stderrors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, errors.ErrGitOperation, "fetch %s", dest).WithDetail("path", dest)
	}
	return nil
}

// localPin resolves ref as a local tag or a commit already in the object store.
func localPin(repo *gogit.Repository, ref string) (plumbing.Hash, bool) {
	if _, err := repo.Reference(plumbing.NewTagReferenceName(ref), false); err == nil {
		if hash, err := repo.ResolveRevision(plumbing.Revision(plumbing.NewTagReferenceName(ref))); err == nil {
			return *hash, true
		}
	}
	if !IsCommitID(ref) {
		return plumbing.ZeroHash, false
	}
	if fullCommitID.MatchString(ref) {
		if commit, err := repo.CommitObject(plumbing.NewHash(ref)); err == nil {
			return commit.Hash, true
		}
		return plumbing.ZeroHash, false
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil || !strings.HasPrefix(hash.String(), strings.ToLower(ref)) {
		return plumbing.ZeroHash, false
	}
	return *hash, true
}

func checkoutHash(wt *gogit.Worktree, dest string, hash plumbing.Hash) error {
	if err := wt.Checkout(&gogit.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return errors.Wrapf(err, errors.ErrGitOperation, "checkout %s", hash).
			WithDetail("ref", hash.String()).
			WithDetail("path", dest)
	}
	return nil
}

// CurrentRevision implements Source.
func (g *GoGit) CurrentRevision(dest string) (string, error) {
	repo, err := g.open(dest)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrGitOperation, "read HEAD of %s", dest).WithDetail("path", dest)
	}
	return head.Hash().String(), nil
}

// Inspect implements Source.
func (g *GoGit) Inspect(dest string) (State, error) {
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return StateMissing, nil
	}
	if !hasDotGit(dest) {
		return StateNotRepository, nil
	}
	repo, err := gogit.PlainOpen(dest)
	if err != nil {
		return StateNotRepository, nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return StateNotRepository, errors.Wrapf(err, errors.ErrGitOperation, "open worktree %s", dest)
	}
	status, err := wt.Status()
	if err != nil {
		return StateNotRepository, errors.Wrapf(err, errors.ErrGitOperation, "status %s", dest)
	}
	if !status.IsClean() {
		return StateDirty, nil
	}
	return StateClean, nil
}
