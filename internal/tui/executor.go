package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Executor runs center work inside the Bubble Tea update loop. Posted
// functions are delivered to Update as a postedMsg, so they run on the same
// goroutine as key handling and never race with View.
type Executor struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

// NewExecutor creates an executor with nothing pending.
func NewExecutor() *Executor {
	return &Executor{wake: make(chan struct{}, 1)}
}

// Post implements toast.Executor. It never blocks.
func (e *Executor) Post(fn func()) {
	e.mu.Lock()
	e.pending = append(e.pending, fn)
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

type postedMsg struct {
	fns []func()
}

// wait returns a command that blocks until work is posted.
func (e *Executor) wait() tea.Cmd {
	return func() tea.Msg {
		<-e.wake
		return postedMsg{fns: e.drain()}
	}
}

func (e *Executor) drain() []func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	fns := e.pending
	e.pending = nil
	return fns
}
