package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docfind/docfind/internal/extract"
)

// DefaultDebounceWindow is how long the watcher waits for a path to go
// quiet before reporting it.
const DefaultDebounceWindow = 500 * time.Millisecond

// TreeWatcher watches a directory tree recursively and emits debounced
// events for supported document files.
type TreeWatcher struct {
	fsw     *fsnotify.Watcher
	deb     *Debouncer
	mu      sync.Mutex
	stopped bool
	doneCh  chan struct{}
}

// NewTreeWatcher creates a watcher with the given debounce window.
func NewTreeWatcher(window time.Duration) (*TreeWatcher, error) {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &TreeWatcher{
		fsw:    fsw,
		deb:    NewDebouncer(window),
		doneCh: make(chan struct{}),
	}, nil
}

// Start watches root and all its subdirectories. New directories are
// added as they appear. Runs until Stop or context cancellation.
func (w *TreeWatcher) Start(ctx context.Context, root string) error {
	if err := w.addTree(root); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

// Events returns debounced event batches.
func (w *TreeWatcher) Events() <-chan []FileEvent {
	return w.deb.Output()
}

// Stop stops watching. Safe to call more than once.
func (w *TreeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.doneCh)
	err := w.fsw.Close()
	w.deb.Stop()
	return err
}

func (w *TreeWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *TreeWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return
		case <-w.doneCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (w *TreeWatcher) handle(event fsnotify.Event) {
	// Newly created directories join the watch so nested documents
	// are seen.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				slog.Warn("watch_add_failed",
					slog.String("path", event.Name),
					slog.String("error", err.Error()))
			}
			return
		}
	}

	if _, ok := extract.DetectType(event.Name); !ok {
		return
	}

	var op Operation
	switch {
	case event.Op.Has(fsnotify.Create):
		op = OpCreate
	case event.Op.Has(fsnotify.Write):
		op = OpModify
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		op = OpDelete
	default:
		return
	}

	w.deb.Add(FileEvent{
		Path:      event.Name,
		Operation: op,
		Timestamp: time.Now(),
	})
}
