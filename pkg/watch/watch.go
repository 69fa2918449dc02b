// Package watch re-runs a callback when watched files change. Events are
// debounced so an editor saving several files triggers one rebuild.
package watch

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
)

// DefaultDebounce is the quiet period before a batch of changes is delivered.
const DefaultDebounce = 300 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	// Files are watched individually (through their parent directory).
	Files []string

	// Dirs are watched recursively.
	Dirs []string

	// Ignore lists path prefixes whose events are dropped, such as the
	// plugin cache or generated outputs.
	Ignore []string

	Debounce time.Duration
}

// Watcher delivers batches of changed paths.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     []string
	ignore   []string
	debounce time.Duration
}

// New starts watching. Close must be called to release the watcher.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create file watcher")
	}
	w := &Watcher{
		fsw:      fsw,
		files:    map[string]bool{},
		debounce: opts.Debounce,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	for _, p := range opts.Ignore {
		w.ignore = append(w.ignore, filepath.Clean(p))
	}

	for _, f := range opts.Files {
		f = filepath.Clean(f)
		w.files[f] = true
		if err := w.add(filepath.Dir(f)); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	for _, d := range opts.Dirs {
		d = filepath.Clean(d)
		w.dirs = append(w.dirs, d)
		if err := w.addTree(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot watch %s", dir).WithDetail("path", dir)
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.ignored(path)) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *Watcher) ignored(path string) bool {
	for _, p := range w.ignore {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant reports whether an event path should trigger a change.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if w.ignored(path) || strings.HasSuffix(path, ".forge-tmp") {
		return false
	}
	if w.files[path] {
		return true
	}
	for _, d := range w.dirs {
		if strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run blocks until ctx is done, calling onChange with each debounced batch
// of changed paths. Batches are delivered one at a time on the calling
// goroutine; an error from onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string) error) error {
	logger := logging.GetLogger("watch")
	d := NewDebouncer(w.debounce)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			logger.Trace().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("File event")
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && w.inWatchedDir(ev.Name) {
					if err := w.addTree(ev.Name); err != nil {
						logger.Warn().Err(err).Str("path", ev.Name).Msg("Cannot watch new directory")
					}
				}
			}
			d.Add(ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")

		case batch := <-d.C():
			logger.Info().Strs("paths", batch).Msg("Change detected")
			if err := onChange(batch); err != nil {
				logger.Error().Err(err).Msg("Rebuild failed")
			}
		}
	}
}

func (w *Watcher) inWatchedDir(path string) bool {
	for _, d := range w.dirs {
		if strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Debouncer groups paths added in quick succession into one batch.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
	out     chan []string
}

// NewDebouncer returns a Debouncer delivering batches after delay of quiet.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: map[string]bool{},
		out:     make(chan []string, 1),
	}
}

// C delivers sorted batches of distinct paths.
func (d *Debouncer) C() <-chan []string { return d.out }

// Add records a path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(d.pending))
	for p := range d.pending {
		batch = append(batch, p)
	}
	d.pending = map[string]bool{}
	d.mu.Unlock()

	sort.Strings(batch)
	select {
	case d.out <- batch:
	default:
		// The previous batch has not been taken yet; fold this one into
		// the next delivery.
		for _, p := range batch {
			d.Add(p)
		}
	}
}

// Stop cancels a pending delivery.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
