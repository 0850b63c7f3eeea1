package pipeline

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by Execute when no source video has been
// selected. No network call is issued and the session status is left
// unchanged.
var ErrEmptyInput = errors.New("no video selected")

// ServerError is a non-success response from the backend. Detail
// carries the server-supplied message when the response body had one,
// otherwise the HTTP status text.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	return e.Detail
}

// NetworkError is a transport-level failure reaching the backend.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
