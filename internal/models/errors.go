package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown documents and sessions alike.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition reports a forbidden session lifecycle move.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed store or artifact write. Save failures are
// propagated to the caller rather than swallowed, so an operation never
// reports success for data that was not durably written.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
