package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoute is returned when no chain of routes connects two cities
	ErrNoRoute = errors.New("No route found")
	// ErrInvalidCredentials is returned for a wrong admin password or token
	ErrInvalidCredentials = errors.New("Invalid password")
)

// ValidationError reports a request the caller must correct
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a *ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
