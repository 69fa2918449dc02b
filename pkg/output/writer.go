// Package output writes rendered files into the project. Every target is
// resolved against the project root first; nothing is written outside it.
package output

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
	"github.com/solitary-project/forge/pkg/types"
)

const tempSuffix = ".forge-tmp"

// Resolver maps an output path to an absolute path inside the project.
// paths.Paths satisfies it.
type Resolver interface {
	ResolveOutput(rel string) (string, error)
}

// Options control how files are written.
type Options struct {
	// DryRun reports what would be written without touching the filesystem.
	DryRun bool

	// NoOverwrite refuses to replace existing files.
	NoOverwrite bool

	// FileMode for new files. Defaults to 0644.
	FileMode fs.FileMode
}

// Writer writes rendered files below the project root.
type Writer struct {
	fs       types.FS
	resolver Resolver
	opts     Options
}

// NewWriter returns a Writer.
func NewWriter(fsys types.FS, resolver Resolver, opts Options) *Writer {
	if opts.FileMode == 0 {
		opts.FileMode = 0644
	}
	return &Writer{fs: fsys, resolver: resolver, opts: opts}
}

// DryRun reports whether the writer only simulates writes.
func (w *Writer) DryRun() bool { return w.opts.DryRun }

// Write stores content at rel. Files whose content is already identical are
// left alone and reported as unchanged. Writes go through a temporary file
// and a rename so readers never see a partial file.
func (w *Writer) Write(rel string, content []byte) (*types.WrittenFile, error) {
	logger := logging.GetLogger("output.writer")

	target, err := w.resolver.ResolveOutput(rel)
	if err != nil {
		return nil, err
	}
	result := &types.WrittenFile{Path: target, Bytes: len(content)}

	existing, readErr := w.fs.ReadFile(target)
	exists := readErr == nil
	if readErr != nil && !stderrors.Is(readErr, fs.ErrNotExist) {
		if info, statErr := w.fs.Stat(target); statErr == nil && info.IsDir() {
			return nil, errors.Newf(errors.ErrOutputWrite, "output %s is a directory", rel).WithDetail("output", rel)
		}
		return nil, errors.Wrapf(readErr, errors.ErrOutputWrite, "cannot read existing output %s", rel).
			WithDetail("output", rel)
	}
	if exists && w.opts.NoOverwrite {
		return nil, errors.Newf(errors.ErrOutputWrite, "output file already exists: %s", rel).WithDetail("output", rel)
	}
	if exists && bytes.Equal(existing, content) {
		result.Unchanged = true
		logger.Debug().Str("output", target).Msg("Output unchanged")
		return result, nil
	}

	if w.opts.DryRun {
		logger.Info().Str("output", target).Int("bytes", len(content)).Msg("Dry run: would write")
		return result, nil
	}

	if err := w.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrOutputWrite, "cannot create directory for %s", rel).
			WithDetail("output", rel)
	}
	tmp := target + tempSuffix
	if err := w.fs.WriteFile(tmp, content, w.opts.FileMode); err != nil {
		return nil, errors.Wrapf(err, errors.ErrOutputWrite, "cannot write %s", rel).WithDetail("output", rel)
	}
	if err := w.fs.Rename(tmp, target); err != nil {
		_ = w.fs.Remove(tmp)
		return nil, errors.Wrapf(err, errors.ErrOutputWrite, "cannot replace %s", rel).WithDetail("output", rel)
	}

	result.Written = true
	logger.Info().Str("output", target).Int("bytes", len(content)).Msg("Wrote output")
	return result, nil
}
