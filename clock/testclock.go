package clock

import "sync"

// TestClock is a Clock whose current time is set explicitly. It is intended
// for tests that assert on view start/end windows.
type TestClock struct {
	mu  sync.Mutex
	now Timestamp
}

// NewTest returns a TestClock initialized to the zero timestamp.
func NewTest() *TestClock {
	return &TestClock{}
}

// SetTime sets the time returned by subsequent Now calls.
func (c *TestClock) SetTime(t Timestamp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Now returns the last time passed to SetTime.
func (c *TestClock) Now() Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
