package domain

import (
	"errors"
	"fmt"
)

// ErrAuthExpired means the token could not be refreshed, interactive authorization is required
var ErrAuthExpired = errors.New("authorization expired")

// TransportError is a failed API call, Status is zero for network errors and timeouts
type TransportError struct {
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request %s: %v", e.Path, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("request %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("request %s: status %d: %s", e.Path, e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Temporary reports whether a later attempt may succeed
func (e *TransportError) Temporary() bool {
	return e.Status == 0 || e.Status >= 500
}

// PersistenceError is a failure to read or write local state, fatal for the affected feed
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
