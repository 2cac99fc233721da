package commands

import (
	"errors"
	"fmt"
)

// ErrTitleRequired indicates an add with no text after trimming.
var ErrTitleRequired = errors.New("task title required")

// ValidationError reports input rejected before any store mutation.
// Hint, when set, is shown to the user instead of the error text.
type ValidationError struct {
	Err  error
	Hint string
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StaleReferenceError indicates a position outside the freshly fetched list.
type StaleReferenceError struct {
	Position int
	Len      int
}

func (e *StaleReferenceError) Error() string {
	return "task not found, list may have changed"
}

// Detail describes the mismatch for logs.
func (e *StaleReferenceError) Detail() string {
	return fmt.Sprintf("position %d, list has %d tasks", e.Position, e.Len)
}
