// Package watch re-runs a callback when watched files change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ukaji3/jtf-go/pkg/logging"
)

// DefaultInterval is the debounce interval used when none is configured.
const DefaultInterval = 200 * time.Millisecond

// Watcher watches a set of files for changes. Parent directories are
// watched rather than the files themselves so that editors which replace a
// file by renaming over it keep being tracked.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	interval time.Duration
	files    map[string]bool

	mu         sync.Mutex
	running    bool
	debouncers map[string]*Debouncer
	stopCh     chan struct{}
	doneCh     chan struct{}
	stopOnce   sync.Once
	closeOnce  sync.Once
}

// New creates a watcher for paths. Every path must name an existing file.
func New(paths []string, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
	}

	return &Watcher{
		watcher:    fsw,
		logger:     logger,
		interval:   interval,
		files:      files,
		debouncers: make(map[string]*Debouncer),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called. After each burst of
// changes to a watched file, onChange is called with the file's absolute path.
// Errors from onChange are logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer close(w.doneCh)

	w.logger.Info("File watcher started",
		"files", len(w.files),
		"debounce_ms", w.interval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			path, relevant := w.match(event)
			if !relevant {
				continue
			}

			w.logger.Debug("File event detected", "path", path, "op", event.Op.String())
			w.debouncer(path).Trigger(func() {
				if err := onChange(path); err != nil {
					w.logger.Error("Change handler failed", "path", path, "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

// Stop stops watching, cancels pending callbacks and releases the
// underlying watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })

	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if running {
		<-w.doneCh
	}

	w.mu.Lock()
	for _, d := range w.debouncers {
		d.Stop()
	}
	w.mu.Unlock()

	var err error
	w.closeOnce.Do(func() {
		if cerr := w.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

func (w *Watcher) match(event fsnotify.Event) (string, bool) {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return "", false
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	return abs, w.files[abs]
}

func (w *Watcher) debouncer(path string) *Debouncer {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.debouncers[path]
	if !ok {
		d = NewDebouncer(w.interval)
		w.debouncers[path] = d
	}
	return d
}
