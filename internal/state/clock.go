package state

import "sync"

// IDSource hands out shape ids.
type IDSource interface {
	// Next returns a fresh id, greater than every id returned or observed
	// before.
	Next() int64
	// Observe records an id that already exists, e.g. one restored from
	// storage, so later ids stay above it.
	Observe(id int64)
}

// Clock is a monotonic counter used as the default IDSource.
type Clock struct {
	mu      sync.Mutex
	counter int64
}

// NewClock returns a clock whose first id is start+1.
func NewClock(start int64) *Clock {
	return &Clock{counter: start}
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Observe moves the clock forward to id if it is behind.
func (c *Clock) Observe(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.counter {
		c.counter = id
	}
}
