package controller

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/booking"
	"github.com/smarttransit/route-booking/internal/models"
)

// BookingOutcome describes a completed booking
type BookingOutcome struct {
	BookingID string
	SeatIDs   []string
	Total     float64
	User      *models.User
	Stale     bool     // route changed while the request was in flight
	Dropped   []string // seats removed from the selection afterwards
}

// Book submits the current selection for the current user.
//
// On success the seat map is re-fetched and reconciled so the booked seats
// leave the selection, and the user's totals are refreshed from the backend.
// If the route changed while the request was in flight only the user refresh
// is applied. A rejected booking also re-fetches seats so the lost seats are
// shown as taken.
func (c *Controller) Book(ctx context.Context) (*BookingOutcome, error) {
	result, err := c.submitter.Submit(ctx, c.booking, c.users.Current())
	if err != nil {
		if booking.IsRejected(err) {
			if _, seatErr := c.LoadSeats(ctx); seatErr != nil {
				c.logger.WithError(seatErr).Debug("Seat refresh after rejection failed")
			}
		}
		return nil, err
	}

	outcome := &BookingOutcome{
		BookingID: result.BookingID,
		SeatIDs:   result.SeatIDs,
		Total:     result.Total,
	}

	if c.booking.IsCurrent(result.Generation) {
		outcome.Dropped = c.reconcileAfterBooking(ctx, result)
	} else {
		outcome.Stale = true
		c.logger.WithFields(logrus.Fields{
			"booking_id": result.BookingID,
			"route_id":   result.RouteID,
		}).Info("Route changed during booking, not touching the new selection")
	}

	user, err := c.RefreshUser(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Booking succeeded but user totals could not be refreshed")
	}
	outcome.User = user

	return outcome, nil
}

// reconcileAfterBooking reconciles against a fresh seat map. If the fetch
// fails the last known map is used with the booked seats marked Booked, so a
// confirmed seat never stays selected.
func (c *Controller) reconcileAfterBooking(ctx context.Context, result *booking.SubmitResult) []string {
	seats, err := c.api.GetSeats(ctx, result.RouteID)
	if err != nil || len(seats) == 0 {
		if err != nil {
			c.logger.WithError(err).Warn("Seat refresh after booking failed, marking booked seats locally")
		}
		seats = c.booking.Seats()
		if len(seats) == 0 {
			seats = models.DefaultSeatMap(c.seatCount)
		}
		booked := make(map[string]bool, len(result.SeatIDs))
		for _, id := range result.SeatIDs {
			booked[id] = true
		}
		for i := range seats {
			if booked[seats[i].SeatID] {
				seats[i].Status = models.SeatStatusBooked
			}
		}
	}

	if !c.booking.IsCurrent(result.Generation) {
		return nil
	}
	return c.booking.ReconcileSeats(seats)
}

// MyBookings lists the current user's bookings
func (c *Controller) MyBookings(ctx context.Context) ([]models.Booking, error) {
	user := c.users.Current()
	if user == nil {
		return nil, errNotLoggedIn()
	}

	bookings, err := c.api.GetUserBookings(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking cancels one of the current user's bookings and refreshes the
// user's totals and, when a route is selected, its seat map.
func (c *Controller) CancelBooking(ctx context.Context, bookingID string) error {
	user := c.users.Current()
	if user == nil {
		return errNotLoggedIn()
	}
	if bookingID == "" {
		return &booking.ValidationError{Field: "bookingID", Msg: "booking id is required"}
	}

	if err := c.api.CancelBooking(ctx, bookingID, user.UserID); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	c.logger.WithField("booking_id", bookingID).Info("Booking cancelled")

	if _, err := c.RefreshUser(ctx); err != nil {
		c.logger.WithError(err).Warn("User refresh after cancellation failed")
	}
	if _, ok := c.booking.Route(); ok && len(c.booking.Seats()) > 0 {
		if _, err := c.LoadSeats(ctx); err != nil {
			c.logger.WithError(err).Debug("Seat refresh after cancellation failed")
		}
	}
	return nil
}
