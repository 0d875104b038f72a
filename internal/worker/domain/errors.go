package domain

import "errors"

var (
	// ErrInvalidPayload is returned when a delivery is not a valid posting event
	ErrInvalidPayload = errors.New("invalid event payload")

	// ErrDuplicateEvent is returned when an event_id has already been recorded
	ErrDuplicateEvent = errors.New("event already recorded")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
