package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/flash"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
	"github.com/jmylchreest/toasty/internal/toast/toasttest"
)

type harness struct {
	t     *testing.T
	m     Model
	clock *toasttest.FakeClock
}

func newHarness(t *testing.T, persist *[]model.Record) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Toast.ExitAnimation = config.Duration(200 * time.Millisecond)

	opts := Options{
		Config: cfg,
		Clock:  toasttest.NewFakeClock(),
		Flash:  flash.NewMemoryStore(),
	}
	if persist != nil {
		opts.History = appenderFunc(func(r model.Record) error {
			*persist = append(*persist, r)
			return nil
		})
	}
	h := &harness{t: t, m: New(opts), clock: opts.Clock.(*toasttest.FakeClock)}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

type appenderFunc func(model.Record) error

func (f appenderFunc) Append(r model.Record) error { return f(r) }

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(k tea.KeyType) tea.Cmd {
	h.t.Helper()
	return h.send(tea.KeyMsg{Type: k})
}

// advance moves the fake clock in small steps, delivering whatever the
// timers posted after each step so follow-up timers get scheduled in time.
func (h *harness) advance(d time.Duration) {
	h.t.Helper()
	const step = 10 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		h.clock.Advance(min(step, d-elapsed))
		for {
			fns := h.m.exec.drain()
			if len(fns) == 0 {
				break
			}
			h.send(postedMsg{fns: fns})
		}
	}
}

func TestSubmitShowsToast(t *testing.T) {
	h := newHarness(t, nil)

	h.typeText("hello")
	h.press(tea.KeyEnter)

	active := h.m.Center().Active()
	require.NotNil(t, active)
	assert.Equal(t, "hello", active.Content())
	assert.Equal(t, toast.Warning, active.Category(), "first category is selected")
	assert.Empty(t, h.m.input.Value(), "input cleared")
	assert.Contains(t, h.m.View(), "hello")
	assert.Contains(t, h.m.View(), "1.5s left")
}

func TestSubmitEmptyIsIgnored(t *testing.T) {
	h := newHarness(t, nil)

	h.typeText("   ")
	h.press(tea.KeyEnter)

	assert.True(t, h.m.Center().Idle())
}

func TestQueueAndExpiry(t *testing.T) {
	var persisted []model.Record
	h := newHarness(t, &persisted)

	h.typeText("A")
	h.press(tea.KeyEnter)
	h.typeText("B")
	h.press(tea.KeyEnter)

	assert.Equal(t, 1, h.m.Center().QueueLen())
	assert.Contains(t, h.m.View(), "Queue (1)")

	h.advance(toast.DefaultDuration)
	assert.Contains(t, h.m.View(), "hiding")
	assert.Equal(t, "A", h.m.Center().Active().Content())

	h.advance(200 * time.Millisecond)
	require.NotNil(t, h.m.Center().Active())
	assert.Equal(t, "B", h.m.Center().Active().Content())
	assert.Contains(t, h.m.View(), "Queue (0)")

	require.Len(t, h.m.board.recent, 1)
	assert.Equal(t, "A", h.m.board.recent[0].Content)
	require.Len(t, persisted, 1)

	h.advance(toast.DefaultDuration + 200*time.Millisecond)
	assert.True(t, h.m.Center().Idle())
	assert.Contains(t, h.m.View(), "(idle)")
	require.Len(t, h.m.board.recent, 2)
	assert.Equal(t, "B", h.m.board.recent[0].Content, "newest first")
}

func TestCategoryAndDurationCycling(t *testing.T) {
	h := newHarness(t, nil)

	h.press(tea.KeyTab)
	h.press(tea.KeyTab)
	assert.Equal(t, toast.Error, h.m.currentCategory())

	h.press(tea.KeyShiftTab)
	assert.Equal(t, toast.Success, h.m.currentCategory())

	h.press(tea.KeyShiftTab)
	h.press(tea.KeyShiftTab)
	assert.Equal(t, toast.Info, h.m.currentCategory(), "wraps around")

	h.press(tea.KeyPgUp)
	h.press(tea.KeyPgUp)
	assert.Equal(t, time.Second, h.m.currentDuration())

	for range 20 {
		h.press(tea.KeyPgDown)
	}
	assert.Zero(t, h.m.currentDuration())

	h.typeText("timed")
	h.press(tea.KeyPgUp)
	h.press(tea.KeyEnter)
	assert.Equal(t, 500*time.Millisecond, h.m.Center().Active().Duration())
}

func TestFlashRoundTrip(t *testing.T) {
	h := newHarness(t, nil)

	h.press(tea.KeyTab)
	h.press(tea.KeyTab)
	h.typeText("oops")
	h.press(tea.KeyCtrlF)

	assert.True(t, h.m.Center().Idle(), "flash is not shown when saved")

	h.press(tea.KeyCtrlT)
	active := h.m.Center().Active()
	require.NotNil(t, active)
	assert.Equal(t, toast.Error, active.Category())
	assert.Equal(t, "oops", active.Content())

	cmd := h.press(tea.KeyCtrlT)
	require.NotNil(t, cmd)
	msg := cmd().(statusMsg)
	assert.Equal(t, "No flash stored", msg.text)
}

func TestHideNow(t *testing.T) {
	h := newHarness(t, nil)

	h.typeText("bye")
	h.press(tea.KeyEnter)
	h.press(tea.KeyCtrlX)

	require.NotNil(t, h.m.Center().Active())
	assert.Equal(t, toast.HidingOut, h.m.Center().Active().State())

	h.advance(200 * time.Millisecond)
	assert.True(t, h.m.Center().Idle())
}

func TestClearRecent(t *testing.T) {
	h := newHarness(t, nil)

	h.typeText("x")
	h.press(tea.KeyEnter)
	h.advance(2 * time.Second)
	require.NotEmpty(t, h.m.board.recent)

	h.press(tea.KeyCtrlL)
	assert.Empty(t, h.m.board.recent)
	assert.Contains(t, h.m.View(), "nothing yet")
}

func TestQuit(t *testing.T) {
	h := newHarness(t, nil)

	cmd := h.press(tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestExecutorPreservesOrder(t *testing.T) {
	e := NewExecutor()
	var got []int
	for i := range 3 {
		e.Post(func() { got = append(got, i) })
	}

	msg := e.wait()().(postedMsg)
	for _, fn := range msg.fns {
		fn()
	}
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Empty(t, e.drain())
}
