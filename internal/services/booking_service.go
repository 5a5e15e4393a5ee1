package services

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/smarttransit/route-booking/internal/models"
)

// BookingService handles seat booking business logic
type BookingService struct {
	bookings   *database.BookingRepository
	routes     *database.RouteRepository
	legacyFare float64
	logger     *logrus.Logger
}

// NewBookingService creates a new booking service. legacyFare prices a
// count-only booking that names neither a route nor a price.
func NewBookingService(
	bookings *database.BookingRepository,
	routes *database.RouteRepository,
	legacyFare float64,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		routes:     routes,
		legacyFare: legacyFare,
		logger:     logger,
	}
}

// BookSeats books specific seats on a route. The per-seat price comes from
// the stored route; a differing client price is logged and ignored.
func (s *BookingService) BookSeats(req *models.BookSeatsRequest) (*models.Booking, error) {
	userID := strings.TrimSpace(req.UserID)
	seatIDs := uniqueSeatIDs(req.SeatIDs)
	if userID == "" || len(seatIDs) == 0 {
		return nil, newValidationError("Invalid booking data")
	}
	if req.RouteID <= 0 {
		return nil, newValidationError("routeID is required")
	}

	route, err := s.routes.GetByID(req.RouteID)
	if err != nil {
		return nil, err
	}

	fare := route.Fare()
	if math.Abs(req.PricePerSeat-fare) > 0.005 {
		s.logger.WithFields(logrus.Fields{
			"route_id":     route.ID,
			"client_price": req.PricePerSeat,
			"route_fare":   fare,
		}).Warn("Client seat price differs from route fare")
	}

	routeInfo := strings.TrimSpace(req.RouteInfo)
	if routeInfo == "" {
		routeInfo = route.Info()
	}

	booking := &models.Booking{
		RouteID:    route.ID,
		RouteInfo:  routeInfo,
		UserID:     userID,
		SeatIDs:    seatIDs,
		SeatCount:  len(seatIDs),
		TotalPrice: round2(fare * float64(len(seatIDs))),
	}
	if err := s.bookings.BookSeats(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.BookingID,
		"route_id":   booking.RouteID,
		"user_id":    booking.UserID,
		"seats":      []string(booking.SeatIDs),
		"total":      booking.TotalPrice,
	}).Info("Seats booked")
	return booking, nil
}

// BookLegacy records a count-only booking. The price in the request is the
// booking total; without one the route fare, or the configured fallback fare,
// is charged per seat.
func (s *BookingService) BookLegacy(req *models.LegacyBookRequest) (*models.Booking, error) {
	userName := strings.TrimSpace(req.UserName)
	if userName == "" || req.Seats <= 0 {
		return nil, newValidationError("Invalid booking data")
	}

	booking := &models.Booking{
		RouteID:   req.RouteID,
		RouteInfo: strings.TrimSpace(req.RouteInfo),
		UserID:    userName,
		SeatCount: req.Seats,
	}

	perSeat := s.legacyFare
	if req.RouteID > 0 {
		route, err := s.routes.GetByID(req.RouteID)
		if err != nil {
			return nil, err
		}
		perSeat = route.Fare()
		if booking.RouteInfo == "" {
			booking.RouteInfo = route.Info()
		}
	}
	if booking.RouteInfo == "" {
		return nil, newValidationError("route_info is required")
	}

	booking.TotalPrice = round2(perSeat * float64(req.Seats))
	if req.Price > 0 {
		booking.TotalPrice = req.Price
	}

	if err := s.bookings.CreateLegacy(booking); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.BookingID,
		"user":       booking.UserID,
		"seats":      booking.SeatCount,
	}).Info("Legacy booking recorded")
	return booking, nil
}

// Cancel cancels a booking owned by userID
func (s *BookingService) Cancel(bookingID, userID string) (*models.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	userID = strings.TrimSpace(userID)
	if bookingID == "" || userID == "" {
		return nil, newValidationError("Invalid request")
	}

	booking, err := s.bookings.Cancel(bookingID, userID)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.BookingID,
		"user_id":    userID,
	}).Info("Booking cancelled")
	return booking, nil
}

// Get returns one booking
func (s *BookingService) Get(bookingID string) (*models.Booking, error) {
	return s.bookings.GetByID(bookingID)
}

// ListByUser returns a user's bookings, newest first
func (s *BookingService) ListByUser(userID string) ([]models.Booking, error) {
	return s.bookings.ListByUser(userID)
}

// ListAll returns every booking
func (s *BookingService) ListAll() ([]models.Booking, error) {
	return s.bookings.ListAll()
}

// uniqueSeatIDs trims ids and drops blanks and repeats, keeping first-seen order
func uniqueSeatIDs(ids []string) models.SeatIDArray {
	seen := make(map[string]bool, len(ids))
	out := make(models.SeatIDArray, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
