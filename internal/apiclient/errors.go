package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a transport, timeout, outage or response-decoding failure. It is
// transient: the caller may retry by user action.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a well-formed refusal from the backend: a 4xx, a 5xx carrying
// a JSON message, or an explicit success=false body. Gateway errors and bare
// 5xx pages are NetworkErrors. Message is the backend's text verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNetworkError reports whether err is or wraps a *NetworkError
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// AsAPIError unwraps err into an *APIError when possible
func AsAPIError(err error) (*APIError, bool) {
	var target *APIError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}
