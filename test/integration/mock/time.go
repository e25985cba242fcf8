package mock

import (
	"sync"
	"time"
)

// Clock is a controllable time source shared by the step definitions. Steps
// set the engine date explicitly; Now returns the wall clock until then.
type Clock struct {
	mu      sync.Mutex
	current *time.Time
}

// NewClock returns a clock following the wall clock.
func NewClock() *Clock {
	return &Clock{}
}

// Set pins the clock to a fixed instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &t
}

// Now returns the pinned instant, or the wall clock when none is set.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return *c.current
	}
	return time.Now()
}

// Reset unpins the clock.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}
