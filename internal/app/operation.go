package app

import (
	"time"

	"github.com/google/uuid"
)

// Operation tracks one CLI command run. Its ID is the session id stamped on
// every log line the command writes.
type Operation struct {
	ID      string
	Command string
	Status  string // "success" or "error"
	Started time.Time
}

// NewOperation creates an operation that has not failed yet.
func NewOperation(command string, started time.Time) *Operation {
	return &Operation{
		ID:      uuid.NewString(),
		Command: command,
		Status:  "success",
		Started: started,
	}
}

// Fail marks the operation as failed. It returns err unchanged so call sites
// can write `return op.Fail(err)`.
func (op *Operation) Fail(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Failed reports whether Fail was called with a non-nil error.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
