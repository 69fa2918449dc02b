// pkg/testutil/fake_git.go
// DEPENDENCIES: pkg/git, pkg/types
// PURPOSE: Scriptable in-memory git.Source that counts network operations

package testutil

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/git"
	"github.com/solitary-project/forge/pkg/types"
)

// FakeRemote is a scripted remote repository.
type FakeRemote struct {
	branches map[string]string
	tags     map[string]string
	commits  map[string]map[string]string
	seq      int
}

// Commit records a snapshot of files and returns its commit id.
func (r *FakeRemote) Commit(files map[string]string) string {
	r.seq++
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := sha1.New()
	fmt.Fprintf(h, "%d\n", r.seq)
	for _, k := range keys {
		fmt.Fprintf(h, "%s\x00%s\x00", k, files[k])
	}
	id := hex.EncodeToString(h.Sum(nil))

	snapshot := make(map[string]string, len(files))
	for k, v := range files {
		snapshot[k] = v
	}
	r.commits[id] = snapshot
	return id
}

// SetBranch points a branch at a commit.
func (r *FakeRemote) SetBranch(name, commit string) { r.branches[name] = commit }

// SetTag points a tag at a commit.
func (r *FakeRemote) SetTag(name, commit string) { r.tags[name] = commit }

// Push commits files and moves branch to the new commit.
func (r *FakeRemote) Push(branch string, files map[string]string) string {
	id := r.Commit(files)
	r.SetBranch(branch, id)
	return id
}

type fakeCheckout struct {
	source   string
	head     string
	branches map[string]string
	tags     map[string]string
	known    map[string]bool
	dirty    bool
}

// FakeSource implements git.Source over a types.FS. Checkouts are written
// into the filesystem so resolvers and renderers can read them.
type FakeSource struct {
	FS types.FS

	// CloneErr, when set for a source, fails EnsureCloned for it.
	CloneErr map[string]error

	remotes   map[string]*FakeRemote
	checkouts map[string]*fakeCheckout

	Clones  int
	Fetches int
	Calls   []string
}

var _ git.Source = (*FakeSource)(nil)

// NewFakeSource returns a FakeSource writing checkouts into fsys.
func NewFakeSource(fsys types.FS) *FakeSource {
	return &FakeSource{
		FS:        fsys,
		CloneErr:  map[string]error{},
		remotes:   map[string]*FakeRemote{},
		checkouts: map[string]*fakeCheckout{},
	}
}

// Remote returns the scripted remote for source, creating it.
func (f *FakeSource) Remote(source string) *FakeRemote {
	r, ok := f.remotes[source]
	if !ok {
		r = &FakeRemote{
			branches: map[string]string{},
			tags:     map[string]string{},
			commits:  map[string]map[string]string{},
		}
		f.remotes[source] = r
	}
	return r
}

// MarkDirty simulates local modifications in a checkout.
func (f *FakeSource) MarkDirty(dest string) {
	if c, ok := f.checkouts[filepath.Clean(dest)]; ok {
		c.dirty = true
	}
}

// CallCount is the number of Source methods invoked.
func (f *FakeSource) CallCount() int { return len(f.Calls) }

// NetworkCalls is clones plus fetches.
func (f *FakeSource) NetworkCalls() int { return f.Clones + f.Fetches }

func (f *FakeSource) record(op, arg string) {
	f.Calls = append(f.Calls, op+" "+arg)
}

// EnsureCloned implements git.Source.
func (f *FakeSource) EnsureCloned(source, dest string) error {
	dest = filepath.Clean(dest)
	f.record("ensure-cloned", dest)

	if c, ok := f.checkouts[dest]; ok {
		if c.source != source {
			return errors.Newf(errors.ErrGitOperation, "%s is a checkout of %s, not %s", dest, c.source, source)
		}
		return nil
	}
	if _, err := f.FS.Stat(dest); err == nil {
		return errors.Newf(errors.ErrGitOperation, "%s exists but is not a git repository", dest)
	}
	if err, ok := f.CloneErr[source]; ok {
		f.Clones++
		return errors.Wrapf(err, errors.ErrGitOperation, "clone %s", source)
	}
	remote, ok := f.remotes[source]
	if !ok {
		f.Clones++
		return errors.Newf(errors.ErrGitOperation, "clone %s: repository not found", source)
	}
	f.Clones++

	c := &fakeCheckout{source: source, known: map[string]bool{}}
	f.sync(c, remote)
	head := remote.branches[types.DefaultVersionRef]
	if head == "" {
		for _, id := range remote.branches {
			head = id
			break
		}
	}
	f.checkouts[dest] = c
	return f.materialize(dest, c, remote, head)
}

func (f *FakeSource) sync(c *fakeCheckout, remote *FakeRemote) {
	c.branches = copyRefs(remote.branches)
	c.tags = copyRefs(remote.tags)
	for id := range remote.commits {
		c.known[id] = true
	}
}

func copyRefs(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *FakeSource) materialize(dest string, c *fakeCheckout, remote *FakeRemote, commit string) error {
	if err := f.FS.RemoveAll(dest); err != nil {
		return err
	}
	if err := f.FS.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for rel, content := range remote.commits[commit] {
		path := filepath.Join(dest, filepath.FromSlash(rel))
		if err := f.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := f.FS.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	c.head = commit
	return nil
}

// UpdateAndCheckout implements git.Source.
func (f *FakeSource) UpdateAndCheckout(dest, ref string) error {
	dest = filepath.Clean(dest)
	f.record("checkout", dest+"@"+ref)

	c, ok := f.checkouts[dest]
	if !ok {
		return errors.Newf(errors.ErrGitOperation, "%s exists but is not a git repository", dest)
	}
	if c.dirty {
		return errors.Newf(errors.ErrPluginState, "%s has local modifications", dest)
	}
	remote := f.remotes[c.source]

	if id, ok := c.tags[ref]; ok {
		return f.materialize(dest, c, remote, id)
	}
	if id, ok := c.commit(ref); ok {
		return f.materialize(dest, c, remote, id)
	}

	f.Fetches++
	f.sync(c, remote)

	if id, ok := c.branches[ref]; ok {
		return f.materialize(dest, c, remote, id)
	}
	if id, ok := c.tags[ref]; ok {
		return f.materialize(dest, c, remote, id)
	}
	if id, ok := c.commit(ref); ok {
		return f.materialize(dest, c, remote, id)
	}
	return errors.Newf(errors.ErrGitRefUnknown, "version %q not found in %s", ref, dest)
}

func (c *fakeCheckout) commit(ref string) (string, bool) {
	if !git.IsCommitID(ref) {
		return "", false
	}
	ref = strings.ToLower(ref)
	for id := range c.known {
		if strings.HasPrefix(id, ref) {
			return id, true
		}
	}
	return "", false
}

// CurrentRevision implements git.Source.
func (f *FakeSource) CurrentRevision(dest string) (string, error) {
	dest = filepath.Clean(dest)
	f.record("revision", dest)
	c, ok := f.checkouts[dest]
	if !ok {
		return "", errors.Newf(errors.ErrGitOperation, "%s exists but is not a git repository", dest)
	}
	return c.head, nil
}

// Inspect implements git.Source.
func (f *FakeSource) Inspect(dest string) (git.State, error) {
	dest = filepath.Clean(dest)
	c, ok := f.checkouts[dest]
	switch {
	case ok && c.dirty:
		return git.StateDirty, nil
	case ok:
		return git.StateClean, nil
	}
	if _, err := f.FS.Stat(dest); err == nil {
		return git.StateNotRepository, nil
	}
	return git.StateMissing, nil
}

// Forget drops the checkout record for dest, as if it were deleted.
func (f *FakeSource) Forget(dest string) {
	delete(f.checkouts, filepath.Clean(dest))
}
