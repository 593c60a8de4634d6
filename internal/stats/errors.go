package stats

import (
	"errors"
	"fmt"
)

// Common aggregation errors.
var (
	// ErrInvalidTimeRange is returned when an aggregation window has its
	// start after its end.
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// StatsError wraps an unexpected failure during aggregation with the
// operation that failed, preserving the originating cause for errors.Is/As.
type StatsError struct {
	// Operation is the report that failed (e.g., "deck_statistics").
	Operation string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for StatsError.
func (e *StatsError) Error() string {
	return fmt.Sprintf("statistics calculation failed: %s: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StatsError) Unwrap() error {
	return e.Err
}

func newStatsError(operation string, err error) *StatsError {
	return &StatsError{Operation: operation, Err: err}
}
