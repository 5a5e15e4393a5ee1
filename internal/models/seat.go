package models

import (
	"fmt"
	"strings"
)

// SeatStatus represents the availability of a seat on a route
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "Available"
	SeatStatusReserved  SeatStatus = "Reserved"
	SeatStatusBooked    SeatStatus = "Booked"
)

// DefaultSeatCount is the number of seats synthesized when the backend
// returns no seat records for a route.
const DefaultSeatCount = 40

// Selectable reports whether a seat in this status may be added to a selection
func (s SeatStatus) Selectable() bool {
	return s == SeatStatusAvailable
}

// Valid reports whether s is one of the known statuses
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusReserved, SeatStatusBooked:
		return true
	}
	return false
}

// ParseSeatStatus accepts any casing of the known statuses. A missing status
// is an error like any other unknown value.
func ParseSeatStatus(raw string) (SeatStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "available":
		return SeatStatusAvailable, nil
	case "reserved":
		return SeatStatusReserved, nil
	case "booked":
		return SeatStatusBooked, nil
	}
	return "", fmt.Errorf("unknown seat status %q", raw)
}

// Seat represents a bookable unit on a route
type Seat struct {
	SeatID     string     `json:"seatID" db:"seat_id"`
	Status     SeatStatus `json:"status" db:"status"`
	RouteID    int64      `json:"-" db:"route_id"`
	ReservedBy *string    `json:"-" db:"reserved_by"`
}

// SeatStats is the aggregate returned by GET /api/getSeatStats/{routeID}
type SeatStats struct {
	Total     int `json:"total" db:"total"`
	Available int `json:"available" db:"available"`
	Booked    int `json:"booked" db:"booked"`
	Reserved  int `json:"reserved" db:"reserved"`
}

// SeatLabel returns the canonical id of the n-th seat (1-based)
func SeatLabel(n int) string {
	return fmt.Sprintf("S%d", n)
}

// DefaultSeatMap synthesizes n available seats S1..Sn
func DefaultSeatMap(n int) []Seat {
	seats := make([]Seat, 0, n)
	for i := 1; i <= n; i++ {
		seats = append(seats, Seat{SeatID: SeatLabel(i), Status: SeatStatusAvailable})
	}
	return seats
}

// StatsFor counts the statuses of a seat list
func StatsFor(seats []Seat) SeatStats {
	stats := SeatStats{Total: len(seats)}
	for _, s := range seats {
		switch s.Status {
		case SeatStatusAvailable:
			stats.Available++
		case SeatStatusBooked:
			stats.Booked++
		case SeatStatusReserved:
			stats.Reserved++
		}
	}
	return stats
}

// InitSeatsRequest is the body of POST /api/initSeats
type InitSeatsRequest struct {
	RouteID int64 `json:"routeID" binding:"required"`
}

// SeatHoldRequest is the body of POST /api/reserveSeat and /api/releaseSeat
type SeatHoldRequest struct {
	RouteID int64  `json:"routeID" binding:"required"`
	SeatID  string `json:"seatID" binding:"required"`
	UserID  string `json:"userID" binding:"required"`
}
