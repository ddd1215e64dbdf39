package fwm

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so "today" and claim timestamps are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the local wall-clock time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator produces correlation ids for load runs.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// dateOf returns t's calendar date as midnight UTC, the form expiry dates are stored in.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
