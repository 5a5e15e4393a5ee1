package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")
	// ErrSeatNotHeld is returned when releasing a seat the user does not hold
	ErrSeatNotHeld = errors.New("seat is not reserved by this user")
	// ErrAlreadyCancelled is returned when cancelling a cancelled booking
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// SeatUnavailableError reports a seat that cannot be booked or reserved
type SeatUnavailableError struct {
	SeatID string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("Seat %s is not available", e.SeatID)
}

// NotEnoughSeatsError reports a seat count request that exceeds what is free
type NotEnoughSeatsError struct {
	Requested int
	Available int
}

func (e *NotEnoughSeatsError) Error() string {
	return fmt.Sprintf("Only %d seats available", e.Available)
}

// IsSeatConflict reports whether err means the requested seats were taken
func IsSeatConflict(err error) bool {
	var unavailable *SeatUnavailableError
	var notEnough *NotEnoughSeatsError
	return errors.As(err, &unavailable) || errors.As(err, &notEnough)
}
