package nutrition

import "time"

// Clock abstracts timer creation so the debounce scheduler is testable
// without real sleeps.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	// Stop prevents the timer from firing. It reports whether it stopped
	// the timer before the function ran.
	Stop() bool
}

type realClock struct{}

func NewRealClock() Clock {
	return realClock{}
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
