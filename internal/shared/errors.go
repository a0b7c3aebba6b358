package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthRequired   = fmt.Errorf("login required")
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrInvalidSession = fmt.Errorf("invalid session")
	ErrForbidden      = fmt.Errorf("not allowed for this user")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API and service errors
	ErrTransport          = fmt.Errorf("backend unreachable")
	ErrRemote             = fmt.Errorf("backend request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrVideoNotFound      = fmt.Errorf("video not found")
	ErrWorkoutNotFound    = fmt.Errorf("workout not found")
	ErrBusy               = fmt.Errorf("operation already in progress")
	ErrNoWorkoutSelected  = fmt.Errorf("no workout selected")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// RemoteError is returned for any non-2xx backend response.
//
// It unwraps to [ErrRemote] so callers can match with [errors.Is].
type RemoteError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

// RemoteStatus extracts the HTTP status from a [RemoteError] anywhere in the chain, or 0.
func RemoteStatus(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
