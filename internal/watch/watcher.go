package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// DefaultDebounce matches the window used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

var (
	// ErrRootRequired is returned when Run is called without a directory.
	ErrRootRequired = errors.New("watch: root directory is required")
	// ErrHandlerRequired is returned when no change handler was supplied.
	ErrHandlerRequired = errors.New("watch: change handler is required")
)

// ChangeFunc receives the root-relative, slash separated paths that changed.
type ChangeFunc func(paths []string)

type Option func(*Watcher)

func WithDebounce(window time.Duration) Option {
	return func(w *Watcher) {
		if window > 0 {
			w.debounce = window
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithReady registers fn to run once every directory below the root is
// being watched, before the first change can be delivered.
func WithReady(fn func()) Option {
	return func(w *Watcher) {
		w.ready = fn
	}
}

// Watcher reports changes below a content root.
type Watcher struct {
	onChange ChangeFunc
	ready    func()
	debounce time.Duration
	logger   interfaces.Logger
}

func New(onChange ChangeFunc, opts ...Option) *Watcher {
	w := &Watcher{
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run watches root until ctx is cancelled. It returns nil on cancellation and
// an error only when the watch could not be established.
func (w *Watcher) Run(ctx context.Context, root string) error {
	if strings.TrimSpace(root) == "" {
		return ErrRootRequired
	}
	if w.onChange == nil {
		return ErrHandlerRequired
	}
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch: stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch: %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, root); err != nil {
		return err
	}

	debouncer := NewDebouncer(w.debounce)
	debouncer.dropped = func(batch []string) {
		w.logger.Warn("watch.batch.dropped", "paths", len(batch))
	}
	defer debouncer.Stop()

	w.logger.Info("watch.started", "root", root, "debounce", w.debounce.String())
	if w.ready != nil {
		w.ready()
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped", "root", root)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.handle(fsw, root, event)
			if ok {
				debouncer.Add(rel)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch.error", "error", err)

		case batch, ok := <-debouncer.Output():
			if !ok {
				return nil
			}
			w.logger.Debug("watch.changed", "paths", batch)
			w.onChange(batch)
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, root string, event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if hiddenPath(rel) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(fsw, event.Name); err != nil {
				w.logger.Warn("watch.add.failed", "path", rel, "error", err)
			}
		}
	}
	return rel, true
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Warn("watch.walk.unreadable", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

func hiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
