package database

import (
	"database/sql"
	"fmt"

	"github.com/smarttransit/route-booking/internal/models"
)

const userColumns = `user_id, name, email, total_bookings, total_spent, created_at`

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create registers a user. Registering an existing id is not an error: the
// stored user is returned unchanged.
func (r *UserRepository) Create(userID, name, email string) (*models.User, error) {
	query := `
		INSERT INTO users (user_id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.Exec(query, userID, name, email); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetByID(userID)
}

// GetByID returns a user with booking totals
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	err := r.db.Get(&user, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Update changes a user's name and email
func (r *UserRepository) Update(userID, name, email string) (*models.User, error) {
	var user models.User
	query := `
		UPDATE users SET name = $2, email = $3
		WHERE user_id = $1
		RETURNING ` + userColumns
	err := r.db.Get(&user, query, userID, name, email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// List returns all users, most recently registered first
func (r *UserRepository) List() ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	if err := r.db.Select(&users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
