package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the backend could not be reached, timed out, or
	// is temporarily disabled by the failure guard.
	ErrUnavailable = errors.New("classifier unavailable")

	// ErrBadResponse means the backend answered with a non-success status or
	// a payload without a response field.
	ErrBadResponse = errors.New("classifier returned a bad response")
)

// BadResponseError carries the details of an ErrBadResponse failure
type BadResponseError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *BadResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: status %d: %v", ErrBadResponse, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: status %d", ErrBadResponse, e.StatusCode)
}

func (e *BadResponseError) Is(target error) bool {
	return target == ErrBadResponse
}

func (e *BadResponseError) Unwrap() error {
	return e.Err
}
