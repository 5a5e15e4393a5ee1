package models

import (
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "Active"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// Booking is a server-authoritative ticket purchase
type Booking struct {
	BookingID  string        `json:"bookingID" db:"booking_id"`
	RouteID    int64         `json:"routeID" db:"route_id"`
	RouteInfo  string        `json:"route_info" db:"route_info"`
	UserID     string        `json:"userID" db:"user_id"`
	SeatIDs    SeatIDArray   `json:"seatIDs" db:"seat_ids"`
	SeatCount  int           `json:"seats_booked" db:"seat_count"`
	TotalPrice float64       `json:"totalPrice" db:"total_price"`
	Timestamp  time.Time     `json:"timestamp" db:"created_at"`
	Status     BookingStatus `json:"status" db:"status"`
}

// IsActive reports whether the booking still holds its seats
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}

// BookSeatsRequest is the body of POST /api/bookSeats
type BookSeatsRequest struct {
	RouteID      int64    `json:"routeID"`
	RouteInfo    string   `json:"route_info"`
	UserID       string   `json:"userID"`
	SeatIDs      []string `json:"seatIDs"`
	PricePerSeat float64  `json:"pricePerSeat"`
}

// BookSeatsResponse is returned by POST /api/bookSeats
type BookSeatsResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingID,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LegacyBookRequest is the body of the superseded POST /api/book endpoint,
// which books a seat count rather than specific seats.
type LegacyBookRequest struct {
	RouteInfo string  `json:"route_info"`
	UserName  string  `json:"user_name"`
	Seats     int     `json:"seats"`
	Price     float64 `json:"price"`
	RouteID   int64   `json:"route_id"`
}

// LegacyBookResponse is returned by POST /api/book
type LegacyBookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CancelBookingRequest is the body of POST /api/cancelBooking
type CancelBookingRequest struct {
	BookingID string `json:"bookingID"`
	UserID    string `json:"userID"`
}

// StatusResponse is the generic {success, message|error} reply
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
