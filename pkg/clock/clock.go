// Package clock abstracts wall time so backup names and manifest timestamps
// are deterministic in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// Real uses the system time
type Real struct{}

// New returns the system clock
func New() Clock {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

// Fake is a settable clock for tests
type Fake struct {
	mu      sync.Mutex
	current time.Time
}

// NewFake creates a Fake frozen at t
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set moves the clock to t
func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance moves the clock forward by d
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
