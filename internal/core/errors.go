package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoggedIn short-circuits mutating actions before any
	// request is attempted.
	ErrNotLoggedIn = errors.New("you must be logged in to do that")

	ErrKeyNotFound = errors.New("state key not found")
)

// APIError is an application-level rejection: the server responded,
// with success=false or a non-2xx status. Message is taken from the
// response body when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.Status)
}

// ConnectError is a transport-level failure: no usable response was
// received at all.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return "cannot connect to server"
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether err is a transport-level failure
// rather than an application rejection.
func IsConnectivity(err error) bool {
	var ce *ConnectError
	return errors.As(err, &ce)
}
