package nutrition

import (
	"sync"
	"time"
)

// DefaultDebounce is how long input changes must settle before a recompute
// fires.
const DefaultDebounce = 500 * time.Millisecond

// RecalcScheduler debounces recompute triggers. At most one timer is live
// at a time: every new trigger cancels the pending one and restarts the
// delay from zero, so the recompute runs once per burst of edits, with the
// final input values.
type RecalcScheduler struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	pending Timer

	// OnCancel is called when a live timer gets replaced, for metrics.
	OnCancel func()
}

func NewRecalcScheduler(clock Clock, delay time.Duration) *RecalcScheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &RecalcScheduler{
		clock: clock,
		delay: delay,
	}
}

// Trigger (re)arms the debounce timer to run fn after the quiet period.
func (s *RecalcScheduler) Trigger(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		if s.pending.Stop() && s.OnCancel != nil {
			s.OnCancel()
		}
	}

	var timer Timer
	timer = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.pending == timer {
			s.pending = nil
		}
		s.mu.Unlock()
		fn()
	})
	s.pending = timer
}

// Flush runs the pending recompute immediately, if there is one.
func (s *RecalcScheduler) Flush(fn func()) {
	if s.cancelPending() {
		fn()
	}
}

// Stop drops the pending recompute without running it.
func (s *RecalcScheduler) Stop() {
	s.cancelPending()
}

func (s *RecalcScheduler) cancelPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return false
	}
	stopped := s.pending.Stop()
	s.pending = nil
	return stopped
}
