package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher drops cached sounds whose files change and decodes them again.
type Watcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	player  *Player
	watcher *fsnotify.Watcher
	paths   map[string]bool
	dirs    map[string]bool
	done    chan struct{}
}

// NewWatcher creates a watcher refreshing player's cache.
func NewWatcher(player *Player, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		player: player,
		paths:  make(map[string]bool),
		dirs:   make(map[string]bool),
	}
}

// Watch adds a sound file. Its directory is watched so replaced files are
// noticed. Paths added before Start are registered when it runs.
func (w *Watcher) Watch(path string) error {
	if path == "" {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.paths[path] = true
	dir := filepath.Dir(path)
	if w.watcher == nil || w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

// Start begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watcher = fw
	w.done = make(chan struct{})
	for path := range w.paths {
		dir := filepath.Dir(path)
		if w.dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.logger.Debug("failed to watch sound directory", "dir", dir, "error", err)
			continue
		}
		w.dirs[dir] = true
	}
	w.mu.Unlock()

	go w.run(ctx, fw)
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fw, done := w.watcher, w.done
	w.watcher = nil
	w.dirs = make(map[string]bool)
	w.mu.Unlock()

	if fw != nil {
		_ = fw.Close()
		<-done
	}
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) {
				continue
			}
			w.mu.Lock()
			watched := w.paths[event.Name]
			w.mu.Unlock()
			if !watched {
				continue
			}

			w.player.Invalidate(event.Name)
			if event.Has(fsnotify.Remove) {
				continue
			}
			if err := w.player.Preload(event.Name); err != nil {
				w.logger.Debug("failed to reload sound", "path", event.Name, "error", err)
			} else {
				w.logger.Info("sound reloaded", "path", event.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("sound watcher error", "error", err)
		case <-ctx.Done():
			return
		}
	}
}
