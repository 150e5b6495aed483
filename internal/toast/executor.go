package toast

import (
	"context"
	"sync"
)

// Executor runs functions one at a time on the goroutine that owns a Center.
type Executor interface {
	Post(fn func())
}

// Inline runs posted functions immediately on the caller's goroutine.
// It is only correct when every caller, timer and signal shares one goroutine,
// which is the case in tests driven by a fake clock.
type Inline struct{}

// Post runs fn immediately.
func (Inline) Post(fn func()) { fn() }

// Loop is an Executor backed by an unbounded FIFO of functions, drained by Run.
// Post never blocks, so functions running on the loop may post further work.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

// NewLoop creates an idle loop. Call Run to start draining it.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn for execution on the loop goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted functions in order until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Call runs fn on e and waits for its result. It must not be called from the
// executor's own goroutine unless e runs functions inline.
func Call[T any](ctx context.Context, e Executor, fn func() T) (T, error) {
	result := make(chan T, 1)
	e.Post(func() { result <- fn() })

	select {
	case v := <-result:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
