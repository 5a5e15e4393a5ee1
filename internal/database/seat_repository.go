package database

import (
	"fmt"

	"github.com/smarttransit/route-booking/internal/models"
)

const seatColumns = `route_id, seat_id, status, reserved_by`

// SeatRepository handles seat map database operations
type SeatRepository struct {
	db DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// ListByRoute returns every seat of a route in seat number order
func (r *SeatRepository) ListByRoute(routeID int64) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `SELECT ` + seatColumns + ` FROM seats WHERE route_id = $1 ORDER BY seat_no`
	if err := r.db.Select(&seats, query, routeID); err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	return seats, nil
}

// ListByStatus returns the seats of a route that are in the given status
func (r *SeatRepository) ListByStatus(routeID int64, status models.SeatStatus) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `SELECT ` + seatColumns + ` FROM seats WHERE route_id = $1 AND status = $2 ORDER BY seat_no`
	if err := r.db.Select(&seats, query, routeID, status); err != nil {
		return nil, fmt.Errorf("failed to list %s seats: %w", status, err)
	}
	return seats, nil
}

// Stats counts the seats of a route per status
func (r *SeatRepository) Stats(routeID int64) (*models.SeatStats, error) {
	var stats models.SeatStats
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'Available') AS available,
			COUNT(*) FILTER (WHERE status = 'Booked') AS booked,
			COUNT(*) FILTER (WHERE status = 'Reserved') AS reserved
		FROM seats
		WHERE route_id = $1`
	if err := r.db.Get(&stats, query, routeID); err != nil {
		return nil, fmt.Errorf("failed to get seat stats: %w", err)
	}
	return &stats, nil
}

// InitSeats makes sure a route has seats S1..Sn and returns how many were created
func (r *SeatRepository) InitSeats(routeID int64, seatCount int) (int64, error) {
	result, err := r.db.Exec(initSeatsQuery, routeID, seatCount)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize seats: %w", err)
	}
	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return created, nil
}

// Reserve places a temporary hold on an available seat
func (r *SeatRepository) Reserve(routeID int64, seatID, userID string) error {
	query := `
		UPDATE seats
		SET status = 'Reserved', reserved_by = $3, updated_at = NOW()
		WHERE route_id = $1 AND seat_id = $2 AND status = 'Available'`
	result, err := r.db.Exec(query, routeID, seatID, userID)
	if err != nil {
		return fmt.Errorf("failed to reserve seat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &SeatUnavailableError{SeatID: seatID}
	}
	return nil
}

// Release drops a hold placed by the same user
func (r *SeatRepository) Release(routeID int64, seatID, userID string) error {
	query := `
		UPDATE seats
		SET status = 'Available', reserved_by = NULL, updated_at = NOW()
		WHERE route_id = $1 AND seat_id = $2 AND status = 'Reserved' AND reserved_by = $3`
	result, err := r.db.Exec(query, routeID, seatID, userID)
	if err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrSeatNotHeld
	}
	return nil
}
