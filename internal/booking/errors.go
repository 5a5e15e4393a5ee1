package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidSelection is returned when toggling a seat that is Booked or
// Reserved. The selection is left unchanged.
var ErrInvalidSelection = errors.New("seat is not available for selection")

// ValidationError reports a booking attempt that is incomplete. It is raised
// before any network call is made.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

// RejectedError is a booking the backend refused, typically because a seat
// was taken between selection and submission. Message is the backend text.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsRejected reports whether err is or wraps a *RejectedError
func IsRejected(err error) bool {
	var target *RejectedError
	return errors.As(err, &target)
}
