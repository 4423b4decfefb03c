package mocks

import (
	"sync"
	"time"

	"github.com/lcrawf/moonhollow/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time

	tickers []*MockTicker
	timers  []*MockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// NewTicker returns a manually-driven ticker
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{C: make(chan time.Time, 64)}
	c.tickers = append(c.tickers, t)
	return t
}

// AfterFunc records the scheduled function without running it
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTimer{Delay: d, F: f, pending: true}
	c.timers = append(c.timers, t)
	return t
}

// Tickers returns all tickers created so far
func (c *MockClock) Tickers() []*MockTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*MockTicker(nil), c.tickers...)
}

// Timers returns all timers scheduled so far
func (c *MockClock) Timers() []*MockTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*MockTimer(nil), c.timers...)
}

// FireTimers runs every pending scheduled function synchronously
func (c *MockClock) FireTimers() {
	for _, t := range c.Timers() {
		t.Fire()
	}
}

// MockTicker is a ticker whose ticks the test pushes by hand
type MockTicker struct {
	C       chan time.Time
	stopped bool
	mu      sync.Mutex
}

// Chan returns the tick channel
func (t *MockTicker) Chan() <-chan time.Time {
	return t.C
}

// Stop marks the ticker stopped
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop has been called
func (t *MockTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick pushes one tick with the given time
func (t *MockTicker) Tick(at time.Time) {
	t.C <- at
}

// MockTimer is a scheduled function the test fires by hand
type MockTimer struct {
	Delay   time.Duration
	F       func()
	mu      sync.Mutex
	pending bool
}

// Stop cancels the pending call
func (t *MockTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.pending
	t.pending = false
	return was
}

// Fire runs the function if it is still pending
func (t *MockTimer) Fire() {
	t.mu.Lock()
	if !t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = false
	f := t.F
	t.mu.Unlock()
	f()
}

// Pending reports whether the call has neither fired nor been stopped
func (t *MockTimer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
