// Package toasttest provides deterministic collaborators for testing code
// built on package toast: a manual clock, a recording renderer and exit
// transitions fired by the test.
package toasttest

import (
	"fmt"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/toast"
)

// FakeClock is a toast.Clock whose time only moves when Advance is called.
// Timer callbacks run synchronously inside Advance.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *FakeClock
	at    time.Time
	seq   int
	fn    func()
	done  bool
}

// NewFakeClock returns a clock set to a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run when the clock passes now+d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) toast.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in time order.
// Timers scheduled by callbacks fire too if they fall inside the window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDueLocked(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if t.at.After(c.now) {
			c.now = t.at
		}
		t.done = true
		c.mu.Unlock()

		t.fn()
	}
}

// Pending returns the number of timers that have neither fired nor stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (c *FakeClock) nextDueLocked(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, t := range c.timers {
		if t.done || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Recorder is a toast.Renderer that records every element operation.
type Recorder struct {
	mu       sync.Mutex
	ops      []string
	elements []*Element
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Create records a new element for n.
func (r *Recorder) Create(n *toast.Notification) toast.Element {
	el := &Element{
		rec:      r,
		ID:       n.ID(),
		Content:  n.Content(),
		Category: n.Category(),
	}
	r.mu.Lock()
	r.elements = append(r.elements, el)
	r.mu.Unlock()
	r.record("create", el)
	return el
}

// Ops returns the recorded operations as "op:content" strings.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

// Elements returns every element created so far.
func (r *Recorder) Elements() []*Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Element(nil), r.elements...)
}

// Visible returns the elements currently inserted.
func (r *Recorder) Visible() []*Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Element
	for _, el := range r.elements {
		if el.Inserted && !el.Removed {
			out = append(out, el)
		}
	}
	return out
}

func (r *Recorder) record(op string, el *Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, fmt.Sprintf("%s:%s", op, el.Content))
}

// Element is the recorder's toast.Element.
type Element struct {
	rec *Recorder

	ID       string
	Content  string
	Category toast.Category

	Inserted bool
	Entering bool
	Exiting  bool
	Removed  bool
}

func (e *Element) Insert() {
	e.Inserted = true
	e.rec.record("insert", e)
}

func (e *Element) Remove() {
	e.Removed = true
	e.rec.record("remove", e)
}

func (e *Element) MarkEntering() {
	e.Entering = true
	e.rec.record("enter", e)
}

func (e *Element) MarkExiting() {
	e.Exiting = true
	e.rec.record("exit", e)
}

// ManualTransitions hands out exit signals that only fire when the test says so.
type ManualTransitions struct {
	mu      sync.Mutex
	signals []*toast.Signal
}

// AfterExit returns a new unfired signal.
func (m *ManualTransitions) AfterExit(toast.Element) *toast.Signal {
	s := toast.NewSignal()
	m.mu.Lock()
	m.signals = append(m.signals, s)
	m.mu.Unlock()
	return s
}

// Pending returns the number of exit signals not yet fired.
func (m *ManualTransitions) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.signals {
		if !s.Fired() {
			n++
		}
	}
	return n
}

// FireAll fires every outstanding signal and returns how many fired.
func (m *ManualTransitions) FireAll() int {
	m.mu.Lock()
	signals := append([]*toast.Signal(nil), m.signals...)
	m.mu.Unlock()

	n := 0
	for _, s := range signals {
		if s.Fire() {
			n++
		}
	}
	return n
}
