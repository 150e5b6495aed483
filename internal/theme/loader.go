package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/toast"
)

// Resolve finds a theme by name: the user's themes directory first, then the
// bundled set, then the default theme.
func Resolve(dir, name string, logger *slog.Logger) *Theme {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = DefaultName
	}

	if dir != "" {
		p := filepath.Join(dir, name+".css")
		if _, err := os.Stat(p); err == nil {
			t, err := Open(name, p)
			if err == nil {
				return t
			}
			logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
		}
	}

	if t, ok := OpenBundled(name); ok {
		return t
	}

	logger.Warn("theme not found, using default", "theme", name)
	t, _ := OpenBundled(DefaultName)
	return t
}

// Loader owns the GTK CSS provider for the toast windows. Load and Apply must
// be called on the GTK main thread; hot-reloaded CSS is posted back to it
// through the executor.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	dir      string
	exec     toast.Executor
	provider *gtk.CSSProvider
	current  *Theme
	watcher  *Watcher
}

// NewLoader creates a loader reading user themes from dir.
func NewLoader(dir string, exec toast.Executor, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		dir:      dir,
		exec:     exec,
		provider: gtk.NewCSSProvider(),
	}
}

// Load resolves name and loads it into the provider.
func (l *Loader) Load(name string) *Theme {
	t := Resolve(l.dir, name, l.logger)

	l.mu.Lock()
	l.current = t
	l.mu.Unlock()

	l.provider.LoadFromString(t.CSS)
	l.logger.Info("loaded theme", "name", t.Name, "bundled", t.Bundled())
	return t
}

// Current returns the loaded theme, or nil before the first Load.
func (l *Loader) Current() *Theme {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Apply attaches the provider to display, or to the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}
	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}

// Watch hot-reloads the current theme until ctx is cancelled or Stop is
// called. Replaces any previous watch.
func (l *Loader) Watch(ctx context.Context) error {
	l.Stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil || l.current.Bundled() {
		return nil
	}

	w, err := NewWatcher(l.current, func(css string) {
		l.exec.Post(func() { l.provider.LoadFromString(css) })
	}, l.logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.watcher.Close()
		return err
	}
	l.watcher = w
	return nil
}

// Stop ends hot-reloading.
func (l *Loader) Stop() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
