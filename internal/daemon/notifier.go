package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/history"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Notifier shows toasts about toastyd's own events (reloads, errors,
// start-up). Repeats of the same key are rate limited and none of them
// reach the history.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	center *toast.Center
	skip   *history.Recorder // nil = history disabled

	lastNotify  map[string]time.Time
	minInterval time.Duration
	enabled     bool
}

// NewNotifier creates a Notifier showing toasts on center.
func NewNotifier(center *toast.Center, skip *history.Recorder, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:      logger,
		center:      center,
		skip:        skip,
		lastNotify:  make(map[string]time.Time),
		minInterval: 5 * time.Second,
		enabled:     true,
	}
}

// SetEnabled enables or disables internal toasts.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between toasts with the same key.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify posts a toast unless key fired within the minimum interval.
// Safe to call from any goroutine.
func (n *Notifier) Notify(key string, category toast.Category, content string) {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return
	}
	now := time.Now()
	if last, ok := n.lastNotify[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal toast rate-limited", "key", key)
		return
	}
	n.lastNotify[key] = now
	n.mu.Unlock()

	n.logger.Debug("posting internal toast", "key", key, "category", string(category))
	n.center.Post(func() {
		t := n.center.New(content, category)
		if n.skip != nil {
			n.skip.Skip(t)
		}
		t.Show()
	})
}

// NotifyConfigReloaded reports a successful config reload.
func (n *Notifier) NotifyConfigReloaded() {
	n.Notify("config-reload", toast.Info, "Configuration reloaded")
}

// NotifyConfigError reports a config file that failed to load.
func (n *Notifier) NotifyConfigError(err error) {
	n.Notify("config-error", toast.Warning, "Configuration error: "+err.Error())
}

// NotifyFlashError reports a flash that could not be taken.
func (n *Notifier) NotifyFlashError(key string, err error) {
	n.Notify("flash-error:"+key, toast.Error, "Flash "+key+": "+err.Error())
}

// NotifyStartup announces the daemon.
func (n *Notifier) NotifyStartup(version string) {
	n.Notify("startup", toast.Info, "toastyd "+version+" started")
}
