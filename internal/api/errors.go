package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError wraps a request that failed to complete: connection refused,
// DNS failure, timeout, cancelled context. The server may or may not have
// seen the request.
type NetworkError struct {
	Op  string // "POST /devices/3/action"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError is a response the server completed but rejected: a non-2xx
// status, or a 2xx body carrying an error field (the auth endpoints do
// this). The request definitively did not take effect.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server rejected request (%d)", e.Status)
}

// IsUnauthorized reports whether err is a RemoteError carrying HTTP 401.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}
