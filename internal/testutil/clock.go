package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock stands in for fwm.Clock. Reports read "today" from it and claims
// take their timestamp from it, so tests move it with Advance. Safe for
// concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock starts the clock at t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock at 2025-03-10 09:30:00 UTC, the "today"
// the sample dataset's expiry dates are arranged around.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator stands in for fwm.IDGenerator. The service asks it for one id
// per load, so the n-th load of a test gets "load-n".
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("load-%d", g.counter)
}
