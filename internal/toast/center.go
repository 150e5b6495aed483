package toast

import (
	"container/list"
	"log/slog"
	"time"
)

// DefaultDuration is how long a toast stays visible when no duration is set.
const DefaultDuration = 1500 * time.Millisecond

// Admission is the outcome of asking for the visible slot.
type Admission int

const (
	// Activated means the notification went straight into the slot.
	Activated Admission = iota
	// Queued means it was appended to the backlog.
	Queued
)

// String returns the string representation of Admission.
func (a Admission) String() string {
	if a == Activated {
		return "activated"
	}
	return "queued"
}

// EventKind identifies a lifecycle change reported to observers.
type EventKind int

const (
	EventQueued EventKind = iota
	EventActivated
	EventHiding
	EventDone
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventQueued:
		return "queued"
	case EventActivated:
		return "activated"
	case EventHiding:
		return "hiding"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event describes one lifecycle change. Observers run on the executor and
// may read the notification and the center, but must not block.
type Event struct {
	Kind         EventKind
	Notification *Notification
	QueueLen     int
	At           time.Time
}

// Option configures a Center.
type Option func(*Center)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Center) { c.logger = logger }
}

// WithClock sets the clock used for duration timers.
func WithClock(clock Clock) Option {
	return func(c *Center) { c.clock = clock }
}

// WithTransitions sets the exit-transition source.
func WithTransitions(t Transitions) Option {
	return func(c *Center) { c.transitions = t }
}

// WithDefaultDuration sets the duration used when a toast has none.
func WithDefaultDuration(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.defaultDuration = d
		}
	}
}

// WithObserver registers a lifecycle observer.
func WithObserver(fn func(Event)) Option {
	return func(c *Center) { c.observers = append(c.observers, fn) }
}

// WithFlashStore sets the store used by Flash and TakeFlash.
func WithFlashStore(s FlashStore) Option {
	return func(c *Center) { c.flash = s }
}

// Center owns the single visible slot and the FIFO of waiting toasts.
type Center struct {
	renderer    Renderer
	transitions Transitions
	clock       Clock
	exec        Executor
	flash       FlashStore
	logger      *slog.Logger
	observers   []func(Event)

	defaultDuration time.Duration

	active     *Notification
	queue      *list.List               // of *Notification, display order
	queueIndex map[string]*list.Element // by notification ID
}

// NewCenter creates a Center rendering through r and running on exec.
// A nil renderer renders nothing; transitions default to immediate.
func NewCenter(r Renderer, exec Executor, opts ...Option) *Center {
	if r == nil {
		r = nopRenderer{}
	}
	c := &Center{
		renderer:        r,
		transitions:     ImmediateTransitions{},
		clock:           SystemClock(),
		exec:            exec,
		logger:          slog.Default(),
		defaultDuration: DefaultDuration,
		queue:           list.New(),
		queueIndex:      make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Post runs fn on the center's executor. Use it to reach the center from
// other goroutines.
func (c *Center) Post(fn func()) {
	c.exec.Post(fn)
}

// Executor returns the executor the center runs on.
func (c *Center) Executor() Executor { return c.exec }

// New creates a pending notification. It never fails; any category label
// is accepted.
func (c *Center) New(content string, category Category) *Notification {
	return newNotification(c, content, category)
}

// DefaultDuration returns the duration applied to toasts without one.
func (c *Center) DefaultDuration() time.Duration { return c.defaultDuration }

// SetDefaultDuration changes the default for toasts activated from now on.
func (c *Center) SetDefaultDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	c.defaultDuration = d
}

// Active returns the notification in the slot, or nil.
func (c *Center) Active() *Notification { return c.active }

// QueueLen returns the number of waiting notifications.
func (c *Center) QueueLen() int { return c.queue.Len() }

// Idle reports whether the slot and the queue are both empty.
func (c *Center) Idle() bool { return c.active == nil && c.queue.Len() == 0 }

// Queued returns the waiting notifications in display order.
func (c *Center) Queued() []*Notification {
	out := make([]*Notification, 0, c.queue.Len())
	for e := c.queue.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Notification))
	}
	return out
}

func (c *Center) isQueued(n *Notification) bool {
	_, ok := c.queueIndex[n.id]
	return ok
}

// admit activates n if the slot is free, otherwise appends it to the queue.
func (c *Center) admit(n *Notification) Admission {
	if c.active == nil || c.active == n {
		c.active = n
		n.activate()
		return Activated
	}

	c.queueIndex[n.id] = c.queue.PushBack(n)
	c.logger.Debug("queued notification",
		"id", n.id,
		"category", string(n.category),
		"queue_size", c.queue.Len(),
	)
	c.emit(EventQueued, n)
	return Queued
}

// advance frees the slot held by done and promotes the queue head.
func (c *Center) advance(done *Notification) {
	if c.active != done {
		c.logger.Warn("advance from a notification that is not active", "id", done.id)
		return
	}
	c.active = nil

	front := c.queue.Front()
	if front == nil {
		c.logger.Debug("scheduler idle")
		return
	}
	next := c.queue.Remove(front).(*Notification)
	delete(c.queueIndex, next.id)
	c.admit(next)
}

// transition moves n to state and notifies observers.
func (c *Center) transition(n *Notification, to State) {
	from := n.state
	n.state = to

	c.logger.Debug("notification state changed",
		"id", n.id,
		"category", string(n.category),
		"from", from.String(),
		"to", to.String(),
	)

	switch to {
	case Active:
		c.emit(EventActivated, n)
	case HidingOut:
		c.emit(EventHiding, n)
	case Done:
		c.emit(EventDone, n)
	}
}

func (c *Center) emit(kind EventKind, n *Notification) {
	if len(c.observers) == 0 {
		return
	}
	ev := Event{
		Kind:         kind,
		Notification: n,
		QueueLen:     c.queue.Len(),
		At:           c.clock.Now(),
	}
	for _, fn := range c.observers {
		fn(ev)
	}
}
