// Package cache owns the plugin cache root: it maps plugin names to
// checkout directories and enumerates or removes them. It never touches
// paths outside its root.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/types"
	"golang.org/x/text/unicode/norm"
)

// Store is a plugin cache rooted at a single directory.
type Store struct {
	root string
	fs   types.FS
}

// New returns a Store rooted at root.
func New(root string, fsys types.FS) *Store {
	return &Store{root: filepath.Clean(root), fs: fsys}
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// PathFor returns the checkout directory for a plugin name. It is a pure
// function of the root and the name.
func (s *Store) PathFor(name string) string {
	return filepath.Join(s.root, DirName(name))
}

// DirName maps a plugin name to a single safe path segment. Names made
// only of [A-Za-z0-9._-] map to themselves; anything else is replaced by
// '_' and suffixed with a hash of the original so distinct names never
// share a directory.
func DirName(name string) string {
	normalized := norm.NFC.String(name)

	var b strings.Builder
	changed := normalized != name
	for _, r := range normalized {
		if isSafe(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
		changed = true
	}
	out := b.String()

	if out == "" || out == "." || out == ".." || strings.HasPrefix(out, ".") {
		out = "_" + out
		changed = true
	}
	if !changed {
		return out
	}
	sum := sha256.Sum256([]byte(name))
	return out + "-" + hex.EncodeToString(sum[:4])
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}

// Ensure creates the cache root if needed.
func (s *Store) Ensure() error {
	if err := s.fs.MkdirAll(s.root, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrCacheIO, "cannot create cache root %s", s.root).
			WithDetail("path", s.root)
	}
	return nil
}

// Exists reports whether a plugin directory is present.
func (s *Store) Exists(name string) (bool, error) {
	path := s.PathFor(name)
	info, err := s.fs.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrCacheIO, "cannot stat %s", path).
			WithDetail("plugin", name)
	}
	return info.IsDir(), nil
}

// Remove deletes a plugin directory. Removing an absent plugin is not an error.
func (s *Store) Remove(name string) error {
	path := s.PathFor(name)
	if err := s.fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrCacheIO, "cannot remove %s", path).
			WithDetail("plugin", name)
	}
	logger := logging.GetLogger("cache")
	logger.Debug().Str("plugin", name).Str("path", path).Msg("Removed cached plugin")
	return nil
}

// RemoveAll deletes the whole cache root.
func (s *Store) RemoveAll() error {
	if err := s.fs.RemoveAll(s.root); err != nil {
		return errors.Wrapf(err, errors.ErrCacheIO, "cannot remove cache root %s", s.root).
			WithDetail("path", s.root)
	}
	logger := logging.GetLogger("cache")
	logger.Debug().Str("path", s.root).Msg("Removed cache root")
	return nil
}

// List returns the directory names directly under the root, sorted.
// A missing root yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrCacheIO, "cannot list cache root %s", s.root)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
