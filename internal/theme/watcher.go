package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a file-backed theme when any stylesheet in its directory
// changes, since imported partials live alongside the theme.
type Watcher struct {
	logger   *slog.Logger
	theme    *Theme
	watcher  *fsnotify.Watcher
	onChange func(css string)
	debounce time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewWatcher creates a watcher for t. onChange receives the new CSS and runs
// on the watcher goroutine.
func NewWatcher(t *Theme, onChange func(css string), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		logger:   logger,
		theme:    t,
		watcher:  fw,
		onChange: onChange,
		debounce: 150 * time.Millisecond,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Bundled themes have nothing to watch.
func (w *Watcher) Start(ctx context.Context) error {
	if w.theme.Bundled() {
		close(w.done)
		return w.watcher.Close()
	}
	if err := w.watcher.Add(filepath.Dir(w.theme.Path)); err != nil {
		return err
	}
	go w.watch(ctx)
	w.logger.Debug("theme watcher started", "path", w.theme.Path)
	return nil
}

// Stop stops the watcher and waits for it to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
	<-w.done
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.done)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) == ".css" && !event.Has(fsnotify.Chmod) {
				pending = time.After(w.debounce)
			}
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) reload() {
	changed, err := w.theme.Reload()
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", w.theme.Path, "error", err)
		return
	}
	if !changed {
		return
	}
	w.logger.Info("theme changed, reloading", "name", w.theme.Name)
	if w.onChange != nil {
		w.onChange(w.theme.CSS)
	}
}
