package toast

import "sync"

// Signal is a one-shot completion event. Fire may be called from any
// goroutine, any number of times; only the first call has an effect.
type Signal struct {
	mu        sync.Mutex
	fired     bool
	ch        chan struct{}
	callbacks []func()
}

// NewSignal returns an unfired signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Fire marks the signal complete and runs registered callbacks.
// It reports whether this call was the one that fired it.
func (s *Signal) Fire() bool {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return false
	}
	s.fired = true
	close(s.ch)
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	return true
}

// OnFire registers fn to run once the signal fires. If it already fired,
// fn runs immediately on the calling goroutine.
func (s *Signal) OnFire(fn func()) {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		fn()
		return
	}
	s.callbacks = append(s.callbacks, fn)
	s.mu.Unlock()
}

// Done returns a channel closed when the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

// Fired reports whether the signal has fired.
func (s *Signal) Fired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}
