package toast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/toast"
	"github.com/jmylchreest/toasty/internal/toast/toasttest"
)

type harness struct {
	center *toast.Center
	clock  *toasttest.FakeClock
	rec    *toasttest.Recorder
	exits  *toasttest.ManualTransitions
	events []toast.Event
}

func newHarness(t *testing.T, opts ...toast.Option) *harness {
	t.Helper()
	h := &harness{
		clock: toasttest.NewFakeClock(),
		rec:   toasttest.NewRecorder(),
		exits: &toasttest.ManualTransitions{},
	}
	opts = append([]toast.Option{
		toast.WithClock(h.clock),
		toast.WithTransitions(h.exits),
		toast.WithObserver(func(ev toast.Event) { h.events = append(h.events, ev) }),
	}, opts...)
	h.center = toast.NewCenter(h.rec, toast.Inline{}, opts...)
	return h
}

// cycle lets the active toast's timer expire and completes its exit.
func (h *harness) cycle(d time.Duration) {
	h.clock.Advance(d)
	h.exits.FireAll()
}

func (h *harness) activationOrder() []string {
	var out []string
	for _, ev := range h.events {
		if ev.Kind == toast.EventActivated {
			out = append(out, ev.Notification.Content())
		}
	}
	return out
}

func TestShow_EmptySlotActivatesSynchronously(t *testing.T) {
	h := newHarness(t)

	n := h.center.New("hello", toast.Success).Show()

	assert.Equal(t, toast.Active, n.State())
	assert.Same(t, n, h.center.Active())
	assert.Equal(t, 0, h.center.QueueLen())
	assert.Equal(t, []string{"create:hello", "insert:hello", "enter:hello"}, h.rec.Ops())
}

func TestShow_QueuesWhileActive(t *testing.T) {
	h := newHarness(t)

	a := h.center.New("A", toast.Info).ShowFor(1000 * time.Millisecond)
	b := h.center.New("B", toast.Info).Show()

	assert.Equal(t, toast.Active, a.State())
	assert.Equal(t, toast.Pending, b.State())
	assert.Equal(t, 1, h.center.QueueLen())

	// Timer fires: A starts hiding, B still waits for the exit to finish.
	h.clock.Advance(1000 * time.Millisecond)
	assert.Equal(t, toast.HidingOut, a.State())
	assert.Equal(t, toast.Pending, b.State())
	assert.Same(t, a, h.center.Active())

	require.Equal(t, 1, h.exits.FireAll())
	assert.Equal(t, toast.Done, a.State())
	assert.Equal(t, toast.Active, b.State())
	assert.Same(t, b, h.center.Active())

	select {
	case <-a.Done():
	default:
		t.Fatal("done channel of A not closed")
	}

	elems := h.rec.Elements()
	require.Len(t, elems, 2)
	assert.True(t, elems[0].Removed, "A's element should be released")
	assert.False(t, elems[1].Removed)
}

func TestShow_FIFOOrder(t *testing.T) {
	h := newHarness(t)

	h.center.Info("first", 0)
	h.center.Info("A", 0)
	h.center.Info("B", 0)
	h.center.Info("C", 0)
	assert.Equal(t, 3, h.center.QueueLen())

	for i := 0; i < 4; i++ {
		h.cycle(toast.DefaultDuration)
	}

	assert.Equal(t, []string{"first", "A", "B", "C"}, h.activationOrder())
	assert.True(t, h.center.Idle())
}

func TestCenter_AtMostOneVisible(t *testing.T) {
	h := newHarness(t)

	// Interleave shows with partial timer progress and exit completions.
	steps := []func(){
		func() { h.center.Warn("w1", 300*time.Millisecond) },
		func() { h.center.Error("e1", 100*time.Millisecond) },
		func() { h.clock.Advance(200 * time.Millisecond) },
		func() { h.center.Success("s1", 0) },
		func() { h.clock.Advance(200 * time.Millisecond) },
		func() { h.center.Info("i1", 50*time.Millisecond) },
		func() { h.exits.FireAll() },
		func() { h.clock.Advance(100 * time.Millisecond) },
		func() { h.exits.FireAll() },
		func() { h.clock.Advance(2 * time.Second) },
		func() { h.exits.FireAll() },
		func() { h.clock.Advance(2 * time.Second) },
		func() { h.exits.FireAll() },
	}

	for i, step := range steps {
		step()
		assert.LessOrEqual(t, len(h.rec.Visible()), 1, "step %d", i)

		visible := 0
		if a := h.center.Active(); a != nil {
			visible++
			assert.Contains(t, []toast.State{toast.Active, toast.HidingOut}, a.State())
		}
		for _, q := range h.center.Queued() {
			assert.Equal(t, toast.Pending, q.State(), "step %d", i)
		}
		assert.LessOrEqual(t, visible, 1)
	}

	assert.Equal(t, []string{"w1", "e1", "s1", "i1"}, h.activationOrder())
	assert.True(t, h.center.Idle())
}

func TestShow_Idempotent(t *testing.T) {
	h := newHarness(t)

	active := h.center.New("active", toast.Info).Show()
	queued := h.center.New("queued", toast.Info).Show()
	queued.Show()
	queued.ShowFor(5 * time.Second)

	assert.Equal(t, 1, h.center.QueueLen())

	// Re-showing the active toast must not start a second timer.
	timers := h.clock.Pending()
	active.Show()
	assert.Equal(t, timers, h.clock.Pending())
	assert.Equal(t, toast.Active, active.State())
}

func TestShow_DoneIsInert(t *testing.T) {
	h := newHarness(t)

	n := h.center.Info("once", 0)
	h.cycle(toast.DefaultDuration)
	require.Equal(t, toast.Done, n.State())

	n.Show()
	assert.Equal(t, toast.Done, n.State())
	assert.True(t, h.center.Idle())
}

func TestAdvance_EmptyQueueGoesIdle(t *testing.T) {
	h := newHarness(t)

	n := h.center.Success("only", 0)
	h.cycle(toast.DefaultDuration)

	assert.Equal(t, toast.Done, n.State())
	assert.Nil(t, h.center.Active())
	assert.Equal(t, 0, h.center.QueueLen())
	assert.True(t, h.center.Idle())

	// The next show activates immediately.
	next := h.center.Success("next", 0)
	assert.Equal(t, toast.Active, next.State())
}

func TestDefaultDuration(t *testing.T) {
	h := newHarness(t)

	n := h.center.New("x", toast.Info).Show()
	assert.Equal(t, 1500*time.Millisecond, n.Duration())

	h.clock.Advance(1499 * time.Millisecond)
	assert.Equal(t, toast.Active, n.State())
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, toast.HidingOut, n.State())
}

func TestWithDefaultDuration(t *testing.T) {
	h := newHarness(t, toast.WithDefaultDuration(3*time.Second))

	n := h.center.Info("x", 0)
	assert.Equal(t, 3*time.Second, n.Duration())

	h.center.SetDefaultDuration(-1)
	assert.Equal(t, 3*time.Second, h.center.DefaultDuration())
}

func TestQueuedToastKeepsItsDuration(t *testing.T) {
	h := newHarness(t)

	h.center.Info("first", 100*time.Millisecond)
	second := h.center.Info("second", 4*time.Second)

	h.cycle(100 * time.Millisecond)
	require.Equal(t, toast.Active, second.State())

	h.clock.Advance(3 * time.Second)
	assert.Equal(t, toast.Active, second.State())
	h.clock.Advance(time.Second)
	assert.Equal(t, toast.HidingOut, second.State())
}

func TestMutators_OnlyBeforeActivation(t *testing.T) {
	h := newHarness(t)

	blocker := h.center.Info("blocker", 0)
	queued := h.center.New("draft", toast.Warning).Show()

	queued.SetContent("final").SetDuration(2 * time.Second)
	assert.Equal(t, "final", queued.Content())
	assert.Equal(t, 2*time.Second, queued.Duration())

	blocker.SetContent("changed").SetDuration(time.Hour)
	assert.Equal(t, "blocker", blocker.Content())
	assert.Equal(t, toast.DefaultDuration, blocker.Duration())

	h.cycle(toast.DefaultDuration)
	assert.Contains(t, h.rec.Ops(), "create:final")
}

func TestHide_EarlyStopsTimer(t *testing.T) {
	h := newHarness(t)

	n := h.center.Info("early", time.Minute)
	n.Hide()
	assert.Equal(t, toast.HidingOut, n.State())
	assert.Equal(t, 0, h.clock.Pending())

	// A second hide is a no-op.
	n.Hide()
	assert.Equal(t, 1, h.exits.Pending())

	h.exits.FireAll()
	assert.Equal(t, toast.Done, n.State())
}

func TestHide_QueuedIsNotCancelled(t *testing.T) {
	h := newHarness(t)

	h.center.Info("active", 0)
	queued := h.center.Info("queued", 0)

	queued.Hide()
	assert.Equal(t, toast.Pending, queued.State())
	assert.Equal(t, 1, h.center.QueueLen())
}

func TestMissingExitSignalStallsQueue(t *testing.T) {
	h := newHarness(t)

	a := h.center.Info("a", 0)
	b := h.center.Info("b", 0)

	h.clock.Advance(time.Hour)
	assert.Equal(t, toast.HidingOut, a.State())
	assert.Equal(t, toast.Pending, b.State())
	assert.Equal(t, 1, h.center.QueueLen())
}

func TestImmediateTransitions(t *testing.T) {
	clock := toasttest.NewFakeClock()
	rec := toasttest.NewRecorder()
	c := toast.NewCenter(rec, toast.Inline{}, toast.WithClock(clock))

	a := c.Info("a", 0)
	b := c.Info("b", 0)

	clock.Advance(toast.DefaultDuration)
	assert.Equal(t, toast.Done, a.State())
	assert.Equal(t, toast.Active, b.State())
	assert.Equal(t, []string{
		"create:a", "insert:a", "enter:a",
		"exit:a", "remove:a",
		"create:b", "insert:b", "enter:b",
	}, rec.Ops())
}

func TestDelayTransitions(t *testing.T) {
	clock := toasttest.NewFakeClock()
	c := toast.NewCenter(nil, toast.Inline{},
		toast.WithClock(clock),
		toast.WithTransitions(toast.NewDelayTransitions(clock, 300*time.Millisecond)),
	)

	n := c.Info("fade", time.Second)
	clock.Advance(time.Second)
	assert.Equal(t, toast.HidingOut, n.State())
	clock.Advance(299 * time.Millisecond)
	assert.Equal(t, toast.HidingOut, n.State())
	clock.Advance(time.Millisecond)
	assert.Equal(t, toast.Done, n.State())
}

func TestObserverEvents(t *testing.T) {
	h := newHarness(t)

	h.center.Info("a", 0)
	h.center.Info("b", 0)
	h.cycle(toast.DefaultDuration)

	var kinds []string
	for _, ev := range h.events {
		kinds = append(kinds, ev.Kind.String()+":"+ev.Notification.Content())
	}
	assert.Equal(t, []string{
		"activated:a",
		"queued:b",
		"hiding:a",
		"done:a",
		"activated:b",
	}, kinds)
}

func TestStatus(t *testing.T) {
	h := newHarness(t)

	h.center.Error("boom", 2*time.Second)
	h.center.Warn("careful", 0)

	st := h.center.Status()
	require.NotNil(t, st.Active)
	assert.Equal(t, "boom", st.Active.Content)
	assert.Equal(t, toast.Error, st.Active.Category)
	assert.Equal(t, "active", st.Active.State)
	assert.Equal(t, 2*time.Second, st.Active.Duration)
	require.Len(t, st.Queued, 1)
	assert.Equal(t, "careful", st.Queued[0].Content)
	assert.Equal(t, toast.DefaultDuration, st.Queued[0].Duration)
}

func TestIndependentCenters(t *testing.T) {
	h1 := newHarness(t)
	h2 := newHarness(t)

	a := h1.center.Info("one", 0)
	b := h2.center.Info("two", 0)

	assert.Equal(t, toast.Active, a.State())
	assert.Equal(t, toast.Active, b.State())
}

func TestUnknownCategoryAccepted(t *testing.T) {
	h := newHarness(t)

	n := h.center.Show(toast.Category("promo"), "sale", 0)
	assert.Equal(t, toast.Category("promo"), n.Category())
	assert.False(t, n.Category().Known())
	assert.Equal(t, toast.Active, n.State())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want toast.Category
	}{
		{"warning", toast.Warning},
		{"warn", toast.Warning},
		{" Error ", toast.Error},
		{"SUCCESS", toast.Success},
		{"info", toast.Info},
		{"custom-thing", toast.Category("custom-thing")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, toast.ParseCategory(tt.in))
		})
	}
}
