package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
)

// CLI is a Source that runs the git binary. It honours the user's git
// configuration (credential helpers, proxies, insteadOf rewrites).
type CLI struct {
	opts   Options
	binary string
}

// NewCLI returns the git CLI backend.
func NewCLI(opts Options) *CLI {
	return &CLI{opts: opts, binary: "git"}
}

var _ Source = (*CLI)(nil)

// run executes git in dir and returns trimmed stdout.
func (c *CLI) run(dir string, network bool, args ...string) (string, error) {
	ctx := context.Background()
	if network {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.timeout())
		defer cancel()
	}

	logger := logging.GetLogger("git.cli")
	logger.Trace().Str("dir", dir).Strs("args", args).Msg("Running git")

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Wrapf(err, errors.ErrGitOperation, "git %s: %s", args[0], msg).
			WithDetail("args", args).
			WithDetail("dir", dir)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// EnsureCloned implements Source.
func (c *CLI) EnsureCloned(source, dest string) error {
	exists, err := checkDest(dest)
	if err != nil {
		return err
	}
	if exists {
		return c.verifyOrigin(source, dest)
	}

	_, statErr := os.Stat(dest)
	created := os.IsNotExist(statErr)
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrCacheIO, "cannot create %s", parent)
	}

	logger := logging.GetLogger("git.cli")
	logger.Info().Str("source", source).Str("path", dest).Msg("Cloning plugin")
	if _, err := c.run(parent, true, "clone", "--quiet", "--", source, dest); err != nil {
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

func (c *CLI) verifyOrigin(source, dest string) error {
	if !hasDotGit(dest) {
		return notRepository(dest)
	}
	url, err := c.run(dest, false, "remote", "get-url", "origin")
	if err != nil {
		return err
	}
	if !SameSource(url, source) {
		return foreignCheckout(dest, url, source)
	}
	return nil
}

// UpdateAndCheckout implements Source.
func (c *CLI) UpdateAndCheckout(dest, ref string) error {
	logger := logging.GetLogger("git.cli")

	if err := validateRef(dest, ref); err != nil {
		return err
	}
	if !hasDotGit(dest) {
		return notRepository(dest)
	}
	status, err := c.run(dest, false, "status", "--porcelain")
	if err != nil {
		return err
	}
	if status != "" {
		return dirtyCheckout(dest)
	}

	if hash, ok := c.localPin(dest, ref); ok {
		logger.Debug().Str("ref", ref).Str("path", dest).Msg("Using local pin without fetch")
		return c.checkoutDetached(dest, hash)
	}

	logger.Info().Str("path", dest).Msg("Fetching plugin")
	if _, err := c.run(dest, true, "fetch", "--quiet", "--force", "--prune", "--tags", "origin",
		"+refs/heads/*:refs/remotes/origin/*"); err != nil {
		return err
	}

	remoteRef := "refs/remotes/origin/" + ref
	if _, err := c.run(dest, false, "rev-parse", "-q", "--verify", remoteRef); err == nil {
		_, err := c.run(dest, false, "checkout", "-q", "--force", "-B", ref, remoteRef)
		return err
	}

	hash, err := c.run(dest, false, "rev-parse", "-q", "--verify", ref+"^{commit}")
	if err != nil {
		return unknownRef(dest, ref)
	}
	return c.checkoutDetached(dest, hash)
}

func (c *CLI) localPin(dest, ref string) (string, bool) {
	if hash, err := c.run(dest, false, "rev-parse", "-q", "--verify", "refs/tags/"+ref+"^{commit}"); err == nil {
		return hash, true
	}
	if !IsCommitID(ref) {
		return "", false
	}
	hash, err := c.run(dest, false, "rev-parse", "-q", "--verify", ref+"^{commit}")
	if err != nil || !strings.HasPrefix(hash, strings.ToLower(ref)) {
		return "", false
	}
	return hash, true
}

func (c *CLI) checkoutDetached(dest, hash string) error {
	_, err := c.run(dest, false, "checkout", "-q", "--force", "--detach", hash)
	return err
}

// CurrentRevision implements Source.
func (c *CLI) CurrentRevision(dest string) (string, error) {
	if !hasDotGit(dest) {
		return "", notRepository(dest)
	}
	return c.run(dest, false, "rev-parse", "HEAD")
}

// Inspect implements Source.
func (c *CLI) Inspect(dest string) (State, error) {
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return StateMissing, nil
	}
	if !hasDotGit(dest) {
		return StateNotRepository, nil
	}
	status, err := c.run(dest, false, "status", "--porcelain")
	if err != nil {
		return StateNotRepository, nil
	}
	if status != "" {
		return StateDirty, nil
	}
	return StateClean, nil
}
