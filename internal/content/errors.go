package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the API has no such element or collection.
	ErrNotFound = errors.New("content not found")

	// ErrUnauthorized means the session token is missing, expired or
	// rejected. Re-authentication belongs to the login flow.
	ErrUnauthorized = errors.New("not authorized")
)

// ErrStatus wraps an unexpected HTTP status from the API.
type ErrStatus struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
}

func (e *ErrStatus) Unwrap() error { return e.Err }

// ErrTransient indicates a single call failed for a reason that may not
// repeat (network, 5xx, timeout). The client never retries on its own.
type ErrTransient struct {
	Op  string
	Err error
}

func (e *ErrTransient) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *ErrTransient) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the API answered with a payload that does
// not match the expected envelope.
type ErrInvalidResponse struct {
	Op      string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// IsTransient reports whether err is an ErrTransient.
func IsTransient(err error) bool {
	var t *ErrTransient
	return errors.As(err, &t)
}
