package models

import (
	"math"
	"strings"
	"time"
)

// PerKmRate is the per-seat fare applied per kilometer when a route has no
// explicit ticket price.
const PerKmRate = 0.5

// Route represents a bookable origin/destination pair
type Route struct {
	ID          int64       `json:"id" db:"id"`
	From        string      `json:"from" db:"from_city"`
	To          string      `json:"to" db:"to_city"`
	Distance    float64     `json:"distance" db:"distance"`
	TicketPrice *float64    `json:"ticket_price" db:"ticket_price"`
	Coords      Coordinates `json:"coords" db:"coords"`
	CreatedAt   time.Time   `json:"-" db:"created_at"`
}

// HasTicketPrice reports whether the route carries an explicit fare
func (r *Route) HasTicketPrice() bool {
	return r.TicketPrice != nil && *r.TicketPrice > 0
}

// Fare returns the effective per-seat price: the explicit ticket price when
// present, otherwise distance * PerKmRate.
func (r *Route) Fare() float64 {
	if r.HasTicketPrice() {
		return *r.TicketPrice
	}
	return r.Distance * PerKmRate
}

// Info returns the human-readable "From → To" string sent with bookings
func (r *Route) Info() string {
	return r.From + " → " + r.To
}

// Matches reports whether the route connects from and to, ignoring case and
// surrounding whitespace. Direction matters.
func (r *Route) Matches(from, to string) bool {
	return strings.EqualFold(strings.TrimSpace(r.From), strings.TrimSpace(from)) &&
		strings.EqualFold(strings.TrimSpace(r.To), strings.TrimSpace(to))
}

// FindRouteRequest is the body of POST /api/findRoute
type FindRouteRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Journey is the server-computed path between two cities. It may span
// several routes; only single-route journeys carry a RouteID.
type Journey struct {
	Path     []string    `json:"path"`
	Distance float64     `json:"distance"`
	Time     float64     `json:"time"`
	Fare     float64     `json:"fare"`
	Coords   Coordinates `json:"coords"`
	RouteID  int64       `json:"route_id,omitempty"`
}

// PathString joins the journey stops with arrows
func (j *Journey) PathString() string {
	return strings.Join(j.Path, " → ")
}

// Duration converts the fractional hours of the journey into a duration
func (j *Journey) Duration() time.Duration {
	return time.Duration(math.Round(j.Time*60)) * time.Minute
}

// AddRouteRequest is the body of POST /api/addRoute
type AddRouteRequest struct {
	From        string      `json:"from"`
	To          string      `json:"to"`
	Distance    float64     `json:"distance"`
	TicketPrice *float64    `json:"ticket_price"`
	Coords      Coordinates `json:"coords"`
	Password    string      `json:"password,omitempty"`
}

// RemoveRouteRequest is the body of POST /api/removeRoute
type RemoveRouteRequest struct {
	RouteID  int64  `json:"route_id"`
	Password string `json:"password,omitempty"`
}

// AddRouteResponse is returned by POST /api/addRoute
type AddRouteResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}
