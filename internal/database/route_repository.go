package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/route-booking/internal/models"
)

const routeColumns = `id, from_city, to_city, distance, ticket_price, coords, created_at`

// initSeatsQuery creates seats S1..Sn for a route, leaving existing seats untouched
const initSeatsQuery = `
	INSERT INTO seats (route_id, seat_id, seat_no)
	SELECT $1, 'S' || n, n FROM generate_series(1, $2) AS n
	ON CONFLICT (route_id, seat_id) DO NOTHING`

// RouteRepository handles route database operations
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// List returns all routes in id order
func (r *RouteRepository) List() ([]models.Route, error) {
	routes := []models.Route{}
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY id`
	if err := r.db.Select(&routes, query); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// GetByID returns a single route
func (r *RouteRepository) GetByID(id int64) (*models.Route, error) {
	var route models.Route
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`
	err := r.db.Get(&route, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return &route, nil
}

// Create inserts a route together with its seat map and returns the new id
func (r *RouteRepository) Create(route *models.Route, seatCount int) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO routes (from_city, to_city, distance, ticket_price, coords)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	if route.Coords == nil {
		route.Coords = models.Coordinates{}
	}
	err = tx.QueryRowx(query, route.From, route.To, route.Distance, route.TicketPrice, route.Coords).
		Scan(&route.ID, &route.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create route: %w", err)
	}

	if err := initSeats(tx, route.ID, seatCount); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit route: %w", err)
	}
	return route.ID, nil
}

// Delete removes a route; its seats go with it
func (r *RouteRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of routes
func (r *RouteRepository) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM routes`); err != nil {
		return 0, fmt.Errorf("failed to count routes: %w", err)
	}
	return count, nil
}

func initSeats(tx *sqlx.Tx, routeID int64, seatCount int) error {
	if seatCount <= 0 {
		return nil
	}
	if _, err := tx.Exec(initSeatsQuery, routeID, seatCount); err != nil {
		return fmt.Errorf("failed to initialize seats: %w", err)
	}
	return nil
}
