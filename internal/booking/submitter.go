package booking

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/models"
)

// SeatBooker is the backend call used to place a seat-level booking
type SeatBooker interface {
	BookSeats(ctx context.Context, req models.BookSeatsRequest) (string, error)
}

// SubmitResult describes a booking the backend accepted
type SubmitResult struct {
	BookingID  string
	Generation uint64
	RouteID    int64
	SeatIDs    []string
	Total      float64
}

// Submitter turns a session into a bookSeats request. It makes exactly one
// attempt per call.
type Submitter struct {
	api    SeatBooker
	logger logrus.FieldLogger
}

// NewSubmitter creates a new booking submitter
func NewSubmitter(api SeatBooker, logger logrus.FieldLogger) *Submitter {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Submitter{api: api, logger: logger}
}

// Submit books the selected seats of session for user.
//
// Incomplete input fails with *ValidationError and no request is sent. A
// refusal from the backend is returned as *RejectedError with its message
// verbatim; transport failures are returned as *apiclient.NetworkError. The
// session itself is not modified.
func (s *Submitter) Submit(ctx context.Context, session *Session, user *models.User) (*SubmitResult, error) {
	if session == nil {
		return nil, &ValidationError{Field: "route", Msg: "no route selected"}
	}
	snap := session.Snapshot()

	if snap.Route == nil {
		return nil, &ValidationError{Field: "route", Msg: "no route selected"}
	}
	if user == nil || user.UserID == "" {
		return nil, &ValidationError{Field: "user", Msg: "please log in to book seats"}
	}
	if len(snap.SeatIDs) == 0 {
		return nil, &ValidationError{Field: "seats", Msg: "select at least one seat"}
	}

	req := models.BookSeatsRequest{
		RouteID:      snap.Route.ID,
		RouteInfo:    snap.Route.Info(),
		UserID:       user.UserID,
		SeatIDs:      snap.SeatIDs,
		PricePerSeat: snap.Fare,
	}

	log := s.logger.WithFields(logrus.Fields{
		"route_id": req.RouteID,
		"user_id":  req.UserID,
		"seats":    len(req.SeatIDs),
	})

	bookingID, err := s.api.BookSeats(ctx, req)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok {
			log.WithField("reason", apiErr.Message).Info("Booking rejected by backend")
			return nil, &RejectedError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		log.WithError(err).Warn("Booking submission failed")
		return nil, err
	}

	log.WithField("booking_id", bookingID).Info("Booking confirmed")

	return &SubmitResult{
		BookingID:  bookingID,
		Generation: snap.Generation,
		RouteID:    snap.Route.ID,
		SeatIDs:    snap.SeatIDs,
		Total:      snap.Total,
	}, nil
}
