package history

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Appender is the part of Log the Recorder needs.
type Appender interface {
	Append(r model.Record) error
}

// Recorder turns center lifecycle events into history records. Register
// Observe with toast.WithObserver.
type Recorder struct {
	out    Appender
	logger *slog.Logger
	source string

	mu      sync.Mutex
	shown   map[string]int64  // activation time by toast ID
	sources map[string]string // per-toast source overrides
	skip    map[string]bool   // transient toasts, never written
}

// NewRecorder creates a recorder writing to out. source is stored on each
// record unless overridden with Tag.
func NewRecorder(out Appender, source string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		out:     out,
		logger:  logger,
		source:  source,
		shown:   make(map[string]int64),
		sources: make(map[string]string),
		skip:    make(map[string]bool),
	}
}

// Tag records where a toast came from, e.g. "dbus:firefox".
func (r *Recorder) Tag(n *toast.Notification, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[n.ID()] = source
}

// Skip keeps n out of the history.
func (r *Recorder) Skip(n *toast.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skip[n.ID()] = true
}

// Observe handles one lifecycle event.
func (r *Recorder) Observe(ev toast.Event) {
	n := ev.Notification
	switch ev.Kind {
	case toast.EventActivated:
		r.mu.Lock()
		r.shown[n.ID()] = ev.At.UnixMilli()
		r.mu.Unlock()

	case toast.EventDone:
		r.mu.Lock()
		shownAt := r.shown[n.ID()]
		source, ok := r.sources[n.ID()]
		if !ok {
			source = r.source
		}
		skip := r.skip[n.ID()]
		delete(r.shown, n.ID())
		delete(r.sources, n.ID())
		delete(r.skip, n.ID())
		r.mu.Unlock()

		if skip {
			return
		}

		rec := model.Record{
			ID:         n.ID(),
			Source:     source,
			Category:   string(n.Category()),
			Content:    n.Content(),
			DurationMS: n.Duration().Milliseconds(),
			CreatedAt:  n.CreatedAt().UnixMilli(),
			ShownAt:    shownAt,
			DoneAt:     ev.At.UnixMilli(),
		}
		if err := r.out.Append(rec); err != nil {
			r.logger.Warn("failed to record toast", "id", rec.ID, "error", err)
		}
	}
}
