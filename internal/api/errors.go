package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired signals that the refresh protocol could not recover
// the session; the caller must clear local state and return to login.
var ErrSessionExpired = errors.New("api: session expired")

// Error carries the server's response verbatim so screens can surface the
// backend message when one is present.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Forbidden reports whether the server rejected the action for
// authorization or state-conflict reasons. Screens render these exactly
// like a local guard failure.
func (e *Error) Forbidden() bool {
	return e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusConflict
}
