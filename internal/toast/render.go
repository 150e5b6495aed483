package toast

import "time"

// Renderer builds the visual element for a notification when it is activated.
// Nothing is rendered for queued notifications.
type Renderer interface {
	Create(n *Notification) Element
}

// Element is a displayable toast.
type Element interface {
	// Insert adds the element to the visible container.
	Insert()
	// Remove takes the element out of the visible container and releases it.
	Remove()
	// MarkEntering starts the enter transition.
	MarkEntering()
	// MarkExiting starts the exit transition.
	MarkExiting()
}

// Transitions reports when an element's exit transition has finished.
// The returned signal must fire exactly once, eventually. If it never fires
// the notification stays HidingOut and the queue behind it stalls.
type Transitions interface {
	AfterExit(el Element) *Signal
}

// ImmediateTransitions is used where the environment has no exit animation.
// Its signals are already fired.
type ImmediateTransitions struct{}

// AfterExit returns a fired signal.
func (ImmediateTransitions) AfterExit(Element) *Signal {
	s := NewSignal()
	s.Fire()
	return s
}

// DelayTransitions assumes a fixed-length exit animation.
type DelayTransitions struct {
	clock Clock
	delay time.Duration
}

// NewDelayTransitions returns Transitions that fire delay after the exit starts.
// A nil clock uses SystemClock.
func NewDelayTransitions(clock Clock, delay time.Duration) *DelayTransitions {
	if clock == nil {
		clock = SystemClock()
	}
	return &DelayTransitions{clock: clock, delay: delay}
}

// AfterExit returns a signal fired once the delay has elapsed.
func (t *DelayTransitions) AfterExit(Element) *Signal {
	s := NewSignal()
	if t.delay <= 0 {
		s.Fire()
		return s
	}
	t.clock.AfterFunc(t.delay, func() { s.Fire() })
	return s
}

// SetDelay changes the delay for exits started afterwards. Call it on the
// executor.
func (t *DelayTransitions) SetDelay(d time.Duration) { t.delay = d }

// Delay returns the current delay.
func (t *DelayTransitions) Delay() time.Duration { return t.delay }

type nopRenderer struct{}

func (nopRenderer) Create(*Notification) Element { return nopElement{} }

type nopElement struct{}

func (nopElement) Insert()       {}
func (nopElement) Remove()       {}
func (nopElement) MarkEntering() {}
func (nopElement) MarkExiting()  {}
