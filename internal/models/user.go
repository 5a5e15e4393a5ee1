package models

import (
	"time"
)

// User is the identity known to the booking client. UserID is assigned by
// the client on registration; totals are maintained by the backend.
type User struct {
	UserID        string    `json:"userID" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	TotalBookings int       `json:"totalBookings" db:"total_bookings"`
	TotalSpent    float64   `json:"totalSpent" db:"total_spent"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
}

// Valid reports whether the identity fields are populated
func (u *User) Valid() bool {
	return u != nil && u.UserID != "" && u.Name != "" && u.Email != ""
}

// CreateUserRequest is the body of POST /api/createUser and /api/updateUser
type CreateUserRequest struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
