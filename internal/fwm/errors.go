package fwm

import "errors"

// Error kinds. Operations wrap one of these with context; callers test with errors.Is.
var (
	// ErrLoadFailure means a source table is missing or malformed. Fatal at startup.
	ErrLoadFailure = errors.New("load failure")

	// ErrNotFound means the target of an operation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference means a claim (or listing) refers to a row that does not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrValidation means input failed validation before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity means a caller-supplied primary key already exists.
	ErrIntegrity = errors.New("integrity violation")
)
