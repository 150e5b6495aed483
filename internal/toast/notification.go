package toast

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Notification is a single toast. Create one with Center.New; it starts
// Pending and ends Done, after which it is inert.
type Notification struct {
	center *Center

	id        string
	content   string
	category  Category
	duration  time.Duration // zero means the center default
	createdAt time.Time

	state State
	el    Element
	timer Timer
	done  chan struct{}
}

// ID returns the notification's ULID.
func (n *Notification) ID() string { return n.id }

// Content returns the message payload.
func (n *Notification) Content() string { return n.content }

// Category returns the severity label.
func (n *Notification) Category() Category { return n.category }

// State returns the current lifecycle state.
func (n *Notification) State() State { return n.state }

// CreatedAt returns the creation time according to the center's clock.
func (n *Notification) CreatedAt() time.Time { return n.createdAt }

// Duration returns how long the notification stays visible once active.
func (n *Notification) Duration() time.Duration {
	if n.duration > 0 {
		return n.duration
	}
	return n.center.defaultDuration
}

// Done returns a channel closed when the notification reaches Done.
// It is safe to wait on from any goroutine.
func (n *Notification) Done() <-chan struct{} { return n.done }

// SetDuration overrides the display duration. It has no effect once the
// notification is active; a non-positive d restores the default.
func (n *Notification) SetDuration(d time.Duration) *Notification {
	if n.state != Pending {
		n.center.logger.Debug("duration change ignored", "id", n.id, "state", n.state.String())
		return n
	}
	if d < 0 {
		d = 0
	}
	n.duration = d
	return n
}

// SetContent replaces the message. It has no effect once the notification
// is active, because the element has already been rendered.
func (n *Notification) SetContent(content string) *Notification {
	if n.state != Pending {
		n.center.logger.Debug("content change ignored", "id", n.id, "state", n.state.String())
		return n
	}
	n.content = content
	return n
}

// Show requests the visible slot. The notification becomes active at once if
// the slot is free, otherwise it joins the back of the queue. Showing a
// notification that is already queued, visible or finished does nothing.
func (n *Notification) Show() *Notification {
	if n.state != Pending || n.center.isQueued(n) {
		n.center.logger.Debug("show ignored",
			"id", n.id,
			"state", n.state.String(),
			"queued", n.center.isQueued(n),
		)
		return n
	}
	n.center.admit(n)
	return n
}

// ShowFor sets the duration, if positive, and shows the notification.
func (n *Notification) ShowFor(d time.Duration) *Notification {
	if d > 0 {
		n.SetDuration(d)
	}
	return n.Show()
}

// Hide starts the exit transition of an active notification. It is called
// by the duration timer and may be called earlier by the owner; other
// states are left untouched because queued toasts cannot be cancelled.
func (n *Notification) Hide() {
	if n.state != Active {
		return
	}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}

	n.center.transition(n, HidingOut)
	n.el.MarkExiting()

	exit := n.center.transitions.AfterExit(n.el)
	exit.OnFire(func() {
		n.center.exec.Post(n.finish)
	})
}

// activate renders the element and starts the duration timer.
// Only the center calls it, after placing n in the active slot.
func (n *Notification) activate() {
	n.center.transition(n, Active)

	n.el = n.center.renderer.Create(n)
	n.el.Insert()
	n.el.MarkEntering()

	n.timer = n.center.clock.AfterFunc(n.Duration(), func() {
		n.center.exec.Post(n.Hide)
	})
}

// finish runs when the exit transition completes.
func (n *Notification) finish() {
	if n.state != HidingOut {
		return
	}
	n.el.Remove()
	n.el = nil

	n.center.transition(n, Done)
	close(n.done)
	n.center.advance(n)
}

func newNotification(c *Center, content string, category Category) *Notification {
	return &Notification{
		center:    c,
		id:        ulid.Make().String(),
		content:   content,
		category:  category,
		createdAt: c.clock.Now(),
		state:     Pending,
		done:      make(chan struct{}),
	}
}
