package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrDecode marks a 2xx response whose body could not be understood.
var ErrDecode = errors.New("decode backend response")

// StatusError is a non-2xx backend response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Body)
}

// NotFound reports whether the backend answered 404.
func (e *StatusError) NotFound() bool { return e.Code == http.StatusNotFound }

// TransportError is a failure to get any response at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
