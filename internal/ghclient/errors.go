package ghclient

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the GitHub API rate limit has been exceeded.
var ErrRateLimited = errors.New("rate limited")

// APIError wraps a GitHub API failure with its HTTP status code so callers
// can distinguish permission problems from transient failures.
type APIError struct {
	StatusCode int
	Operation  string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %v", e.Operation, e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
