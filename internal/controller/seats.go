package controller

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/booking"
	"github.com/smarttransit/route-booking/internal/models"
)

// SeatMap is the seat view of the bound route
type SeatMap struct {
	RouteID     int64
	Seats       []models.Seat
	Synthesized bool     // backend had no seat records; default map shown
	Dropped     []string // selected seats removed by reconciliation
	Selected    []string
}

// Selection is the current booking state shown to the user
type Selection struct {
	Route   *models.Route
	Fare    float64
	SeatIDs []string
	Total   float64
}

// LoadSeats fetches the seat map of the bound route and reconciles the
// selection against it. When the backend returns no seats a default map of
// Available seats is used for display.
func (c *Controller) LoadSeats(ctx context.Context) (*SeatMap, error) {
	route, ok := c.booking.Route()
	if !ok {
		return nil, &booking.ValidationError{Field: "route", Msg: "select a route first"}
	}
	gen := c.booking.Generation()

	seats, err := c.api.GetSeats(ctx, route.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	if !c.booking.IsCurrent(gen) {
		c.logger.WithField("route_id", route.ID).Debug("Discarding seat map for a route no longer selected")
		return nil, ErrStaleResponse
	}

	synthesized := false
	if len(seats) == 0 {
		seats = models.DefaultSeatMap(c.seatCount)
		synthesized = true
	}

	dropped := c.booking.ReconcileSeats(seats)
	if len(dropped) > 0 {
		c.logger.WithFields(logrus.Fields{"route_id": route.ID, "dropped": dropped}).Info("Selected seats no longer available")
	}

	return &SeatMap{
		RouteID:     route.ID,
		Seats:       seats,
		Synthesized: synthesized,
		Dropped:     dropped,
		Selected:    c.booking.Selected(),
	}, nil
}

// SeatStats fetches the aggregate seat counts of the bound route. Without a
// backend answer the counts are derived from the last seat map, if any.
func (c *Controller) SeatStats(ctx context.Context) (*models.SeatStats, error) {
	route, ok := c.booking.Route()
	if !ok {
		return nil, &booking.ValidationError{Field: "route", Msg: "select a route first"}
	}

	stats, err := c.api.GetSeatStats(ctx, route.ID)
	if err != nil {
		if seats := c.booking.Seats(); len(seats) > 0 {
			local := models.StatsFor(seats)
			return &local, nil
		}
		return nil, fmt.Errorf("failed to load seat stats: %w", err)
	}
	return stats, nil
}

// ToggleSeat selects or deselects a seat of the loaded seat map
func (c *Controller) ToggleSeat(seatID string) (Selection, error) {
	status, ok := c.booking.SeatStatus(seatID)
	if !ok {
		if len(c.booking.Seats()) == 0 {
			return c.Selection(), &booking.ValidationError{Field: "seats", Msg: "load the seat map first"}
		}
		return c.Selection(), booking.ErrInvalidSelection
	}

	if _, err := c.booking.ToggleSeat(seatID, status); err != nil {
		return c.Selection(), err
	}
	return c.Selection(), nil
}

// Selection returns the current route, fare, seats and total
func (c *Controller) Selection() Selection {
	snap := c.booking.Snapshot()
	return Selection{
		Route:   snap.Route,
		Fare:    snap.Fare,
		SeatIDs: snap.SeatIDs,
		Total:   snap.Total,
	}
}

// ClearSelection deselects every seat but keeps the route and seat map
func (c *Controller) ClearSelection() {
	route, ok := c.booking.Route()
	if !ok {
		return
	}
	seats := c.booking.Seats()
	c.booking.BindRoute(route)
	if len(seats) > 0 {
		c.booking.ReconcileSeats(seats)
	}
}
