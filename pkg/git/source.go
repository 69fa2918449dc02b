// Package git gives forge version-control access to plugin checkouts.
// Source is the only way the rest of forge talks to git; the go-git
// backend runs in process and the CLI backend shells out to git.
package git

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/solitary-project/forge/pkg/errors"
)

// Source is version-control access against one working directory at a time.
type Source interface {
	// EnsureCloned clones source into dest when dest is absent. An existing
	// checkout of the same source is left alone. A directory that is not a
	// repository, or tracks another source, is an error and is never deleted.
	EnsureCloned(source, dest string) error

	// UpdateAndCheckout moves dest to ref. Tags and commit ids already
	// present locally are checked out without network access; anything
	// else triggers a fetch first, so branches always move to the remote tip.
	UpdateAndCheckout(dest, ref string) error

	// CurrentRevision returns the commit id checked out in dest.
	CurrentRevision(dest string) (string, error)

	// Inspect reports the state of dest without modifying it.
	Inspect(dest string) (State, error)
}

// State of a would-be checkout directory.
type State int

const (
	StateMissing State = iota
	StateNotRepository
	StateDirty
	StateClean
)

func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateNotRepository:
		return "not-a-repository"
	case StateDirty:
		return "dirty"
	case StateClean:
		return "clean"
	}
	return "unknown"
}

// Backend names
const (
	BackendGoGit = "go-git"
	BackendCLI   = "cli"
)

// DefaultTimeout bounds each network operation.
const DefaultTimeout = 2 * time.Minute

// Options configure a backend.
type Options struct {
	// Timeout bounds clone and fetch. Zero means DefaultTimeout.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// New returns the named backend.
func New(backend string, opts Options) (Source, error) {
	switch backend {
	case BackendGoGit, "":
		return NewGoGit(opts), nil
	case BackendCLI:
		return NewCLI(opts), nil
	}
	return nil, errors.Newf(errors.ErrConfigValid, "unknown git backend %q", backend)
}

var (
	fullCommitID = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
	shortCommit  = regexp.MustCompile(`^[0-9a-fA-F]{7,39}$`)
)

// IsCommitID reports whether ref looks like a full or abbreviated commit id.
func IsCommitID(ref string) bool {
	return fullCommitID.MatchString(ref) || shortCommit.MatchString(ref)
}

func validateRef(dest, ref string) error {
	if ref == "" || strings.HasPrefix(ref, "-") || strings.ContainsAny(ref, " \t\n~^:?*[\\") || strings.Contains(ref, "..") {
		return errors.Newf(errors.ErrGitRefUnknown, "invalid version reference %q", ref).
			WithDetail("ref", ref).
			WithDetail("path", dest)
	}
	return nil
}

// SameSource compares two remote locations, ignoring a trailing slash or
// .git suffix and resolving local paths.
func SameSource(a, b string) bool {
	return normalizeSource(a) == normalizeSource(b)
}

func normalizeSource(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "file://")
	s = strings.TrimRight(s, "/")
	s = strings.TrimSuffix(s, ".git")
	if isLocalPath(s) {
		if abs, err := filepath.Abs(s); err == nil {
			s = filepath.Clean(abs)
		}
	}
	return s
}

func isLocalPath(s string) bool {
	if strings.Contains(s, "://") {
		return false
	}
	// scp-like syntax: user@host:path
	if i := strings.Index(s, ":"); i > 0 && !strings.ContainsAny(s[:i], `/\`) && len(s[:i]) > 1 {
		return false
	}
	return true
}

// checkDest classifies dest before cloning. It returns exists=false when
// a clone may proceed.
func checkDest(dest string) (exists bool, err error) {
	info, statErr := os.Stat(dest)
	switch {
	case os.IsNotExist(statErr):
		return false, nil
	case statErr != nil:
		return false, errors.Wrapf(statErr, errors.ErrGitOperation, "cannot access %s", dest).WithDetail("path", dest)
	case !info.IsDir():
		return false, errors.Newf(errors.ErrGitOperation, "%s exists and is not a directory", dest).WithDetail("path", dest)
	}
	entries, readErr := os.ReadDir(dest)
	if readErr != nil {
		return false, errors.Wrapf(readErr, errors.ErrGitOperation, "cannot read %s", dest).WithDetail("path", dest)
	}
	return len(entries) > 0, nil
}

func hasDotGit(dest string) bool {
	_, err := os.Stat(filepath.Join(dest, ".git"))
	return err == nil
}

func notRepository(dest string) error {
	return errors.Newf(errors.ErrGitOperation, "%s exists but is not a git repository", dest).
		WithDetail("path", dest)
}

func foreignCheckout(dest, have, want string) error {
	return errors.Newf(errors.ErrGitOperation, "%s is a checkout of %s, not %s", dest, have, want).
		WithDetail("path", dest).
		WithDetail("source", want)
}

func dirtyCheckout(dest string) error {
	return errors.Newf(errors.ErrPluginState, "%s has local modifications", dest).
		WithDetail("path", dest)
}

func unknownRef(dest, ref string) error {
	return errors.Newf(errors.ErrGitRefUnknown, "version %q not found in %s", ref, dest).
		WithDetail("ref", ref).
		WithDetail("path", dest)
}
