package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time

	// NewTicker returns a ticker firing every d
	NewTicker(d time.Duration) Ticker

	// AfterFunc schedules f to run after d and returns a cancellable handle
	AfterFunc(d time.Duration, f func()) Timer
}

// Ticker is a cancellable periodic tick source
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Timer is a cancellable scheduled function call
type Timer interface {
	// Stop cancels the call; it reports whether the call was still pending
	Stop() bool
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// NewTicker returns a ticker backed by time.Ticker
func (c *RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

// AfterFunc schedules f on a time.Timer
func (c *RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type realTicker struct {
	t *time.Ticker
}

func (t *realTicker) Chan() <-chan time.Time {
	return t.t.C
}

func (t *realTicker) Stop() {
	t.t.Stop()
}
