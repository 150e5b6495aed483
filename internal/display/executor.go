package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/toasty/internal/toast"
)

// GlibExecutor runs posted functions on the GLib main loop.
type GlibExecutor struct{}

var _ toast.Executor = GlibExecutor{}

// Post schedules fn as an idle callback on the main loop.
func (GlibExecutor) Post(fn func()) {
	glib.IdleAdd(fn)
}

// GlibClock schedules callbacks as GLib timeouts, so they fire on the main
// loop between frames.
type GlibClock struct{}

var _ toast.Clock = GlibClock{}

// Now returns the wall clock time.
func (GlibClock) Now() time.Time { return time.Now() }

// AfterFunc runs fn once after d.
func (GlibClock) AfterFunc(d time.Duration, fn func()) toast.Timer {
	t := &glibTimer{}
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	t.handle = glib.TimeoutAdd(uint(ms), func() bool {
		t.fired = true
		fn()
		return false
	})
	return t
}

// glibTimer is only touched from the main loop.
type glibTimer struct {
	handle  glib.SourceHandle
	fired   bool
	stopped bool
}

func (t *glibTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	glib.SourceRemove(t.handle)
	return true
}
