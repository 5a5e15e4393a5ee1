package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smarttransit/route-booking/internal/models"
)

const bookingColumns = `booking_id, COALESCE(route_id, 0) AS route_id, route_info, user_id, seat_ids, seat_count, total_price, status, created_at`

// BookingRepository handles booking database operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookSeats books specific seats in one transaction. The requested seats are
// locked first, so of two concurrent requests for the same seat exactly one
// succeeds and the other gets a *SeatUnavailableError. A seat reserved by the
// booking user counts as bookable.
func (r *BookingRepository) BookSeats(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked []models.Seat
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE route_id = $1 AND seat_id = ANY($2)
		FOR UPDATE`
	if err := tx.Select(&locked, query, booking.RouteID, pq.Array([]string(booking.SeatIDs))); err != nil {
		return fmt.Errorf("failed to lock seats: %w", err)
	}

	byID := make(map[string]models.Seat, len(locked))
	for _, seat := range locked {
		byID[seat.SeatID] = seat
	}
	for _, id := range booking.SeatIDs {
		seat, ok := byID[id]
		if !ok || !bookableBy(seat, booking.UserID) {
			return &SeatUnavailableError{SeatID: id}
		}
	}

	if err := markBooked(tx, booking.RouteID, booking.SeatIDs); err != nil {
		return err
	}
	if err := insertBooking(tx, booking); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// CreateLegacy records a count-only booking. When the booking names a route,
// the first free seats of that route are allocated to it.
func (r *BookingRepository) CreateLegacy(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if booking.RouteID > 0 {
		var free []string
		query := `
			SELECT seat_id
			FROM seats
			WHERE route_id = $1 AND status = 'Available'
			ORDER BY seat_no
			LIMIT $2
			FOR UPDATE`
		if err := tx.Select(&free, query, booking.RouteID, booking.SeatCount); err != nil {
			return fmt.Errorf("failed to lock seats: %w", err)
		}
		if len(free) < booking.SeatCount {
			return &NotEnoughSeatsError{Requested: booking.SeatCount, Available: len(free)}
		}
		booking.SeatIDs = free
		if err := markBooked(tx, booking.RouteID, booking.SeatIDs); err != nil {
			return err
		}
	}

	if err := insertBooking(tx, booking); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// Cancel marks a booking cancelled, frees its seats and rolls back the user
// totals. Bookings of other users are reported as not found.
func (r *BookingRepository) Cancel(bookingID, userID string) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1 FOR UPDATE`
	err = tx.Get(&booking, query, bookingID)
	if err == sql.ErrNoRows || (err == nil && booking.UserID != userID) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if !booking.IsActive() {
		return nil, ErrAlreadyCancelled
	}

	if _, err := tx.Exec(`UPDATE bookings SET status = 'Cancelled' WHERE booking_id = $1`, bookingID); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if booking.RouteID > 0 && len(booking.SeatIDs) > 0 {
		release := `
			UPDATE seats
			SET status = 'Available', reserved_by = NULL, updated_at = NOW()
			WHERE route_id = $1 AND seat_id = ANY($2) AND status = 'Booked'`
		if _, err := tx.Exec(release, booking.RouteID, pq.Array([]string(booking.SeatIDs))); err != nil {
			return nil, fmt.Errorf("failed to release seats: %w", err)
		}
	}

	totals := `
		UPDATE users
		SET total_bookings = GREATEST(total_bookings - 1, 0),
		    total_spent = GREATEST(total_spent - $2, 0)
		WHERE user_id = $1`
	if _, err := tx.Exec(totals, booking.UserID, booking.TotalPrice); err != nil {
		return nil, fmt.Errorf("failed to update user totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	booking.Status = models.BookingStatusCancelled
	return &booking, nil
}

// GetByID returns a single booking
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`
	err := r.db.Get(&booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ListByUser returns a user's bookings, newest first
func (r *BookingRepository) ListByUser(userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

// ListAll returns every booking, newest first
func (r *BookingRepository) ListAll() ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	if err := r.db.Select(&bookings, query); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func bookableBy(seat models.Seat, userID string) bool {
	switch seat.Status {
	case models.SeatStatusAvailable:
		return true
	case models.SeatStatusReserved:
		return seat.ReservedBy != nil && *seat.ReservedBy == userID
	}
	return false
}

func markBooked(tx *sqlx.Tx, routeID int64, seatIDs []string) error {
	query := `
		UPDATE seats
		SET status = 'Booked', reserved_by = NULL, updated_at = NOW()
		WHERE route_id = $1 AND seat_id = ANY($2)`
	if _, err := tx.Exec(query, routeID, pq.Array(seatIDs)); err != nil {
		return fmt.Errorf("failed to book seats: %w", err)
	}
	return nil
}

// insertBooking assigns the next "B<n>" id, stores the booking and adds it to
// the user's totals.
func insertBooking(tx *sqlx.Tx, booking *models.Booking) error {
	var seq int64
	if err := tx.Get(&seq, `SELECT nextval('booking_number_seq')`); err != nil {
		return fmt.Errorf("failed to allocate booking id: %w", err)
	}
	booking.BookingID = fmt.Sprintf("B%d", seq)
	booking.Status = models.BookingStatusActive
	if booking.SeatIDs == nil {
		booking.SeatIDs = models.SeatIDArray{}
	}

	query := `
		INSERT INTO bookings (booking_id, route_id, route_info, user_id, seat_ids, seat_count, total_price, status)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	err := tx.QueryRowx(query,
		booking.BookingID, booking.RouteID, booking.RouteInfo, booking.UserID,
		booking.SeatIDs, booking.SeatCount, booking.TotalPrice, booking.Status,
	).Scan(&booking.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	totals := `
		UPDATE users
		SET total_bookings = total_bookings + 1, total_spent = total_spent + $2
		WHERE user_id = $1`
	if _, err := tx.Exec(totals, booking.UserID, booking.TotalPrice); err != nil {
		return fmt.Errorf("failed to update user totals: %w", err)
	}
	return nil
}
