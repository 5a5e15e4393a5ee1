package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/models"
)

// GetSeats fetches the seat map of a route. An empty slice means the backend
// has no seat records; synthesizing a default map is the caller's decision.
func (c *Client) GetSeats(ctx context.Context, routeID int64) ([]models.Seat, error) {
	return c.fetchSeats(ctx, "getSeats", routePath("/api/getSeats", routeID), nil)
}

// GetAvailableSeats fetches only the Available seats of a route
func (c *Client) GetAvailableSeats(ctx context.Context, routeID int64) ([]models.Seat, error) {
	return c.fetchSeats(ctx, "getAvailableSeats", routePath("/api/getAvailableSeats", routeID), nil)
}

// GetBookedSeats fetches only the Booked seats of a route
func (c *Client) GetBookedSeats(ctx context.Context, routeID int64) ([]models.Seat, error) {
	q := url.Values{}
	q.Set("route_id", strconv.FormatInt(routeID, 10))
	return c.fetchSeats(ctx, "getBookedSeats", "/api/getBookedSeats", q)
}

func (c *Client) fetchSeats(ctx context.Context, op, path string, query url.Values) ([]models.Seat, error) {
	var raw []rawSeat
	if err := c.do(ctx, op, http.MethodGet, path, requestOptions{query: query}, &raw); err != nil {
		return nil, err
	}

	seats := make([]models.Seat, 0, len(raw))
	for _, r := range raw {
		seat, known, err := normalizeSeat(r)
		if err != nil {
			return nil, &NetworkError{Op: op, Err: fmt.Errorf("failed to parse seat: %w", err)}
		}
		if !known {
			c.logger.WithFields(logrus.Fields{
				"op":      op,
				"seat_id": seat.SeatID,
				"status":  r.Status,
			}).Warn("Unknown seat status, treating seat as unavailable")
		}
		seats = append(seats, seat)
	}
	return seats, nil
}

// GetSeatStats fetches the aggregate seat counts of a route
func (c *Client) GetSeatStats(ctx context.Context, routeID int64) (*models.SeatStats, error) {
	var raw rawStats
	if err := c.do(ctx, "getSeatStats", http.MethodGet, routePath("/api/getSeatStats", routeID), requestOptions{}, &raw); err != nil {
		return nil, err
	}
	stats := normalizeStats(raw)
	return &stats, nil
}

// InitSeats asks the backend to create the default seat map for a route
func (c *Client) InitSeats(ctx context.Context, routeID int64) error {
	return c.statusCall(ctx, "initSeats", "/api/initSeats", models.InitSeatsRequest{RouteID: routeID})
}

// ReserveSeat places a temporary hold on a seat for a user
func (c *Client) ReserveSeat(ctx context.Context, routeID int64, seatID, userID string) error {
	return c.statusCall(ctx, "reserveSeat", "/api/reserveSeat", models.SeatHoldRequest{RouteID: routeID, SeatID: seatID, UserID: userID})
}

// ReleaseSeat drops a hold placed by ReserveSeat
func (c *Client) ReleaseSeat(ctx context.Context, routeID int64, seatID, userID string) error {
	return c.statusCall(ctx, "releaseSeat", "/api/releaseSeat", models.SeatHoldRequest{RouteID: routeID, SeatID: seatID, UserID: userID})
}

// statusCall posts body and interprets a {success, message|error} reply
func (c *Client) statusCall(ctx context.Context, op, path string, body interface{}) error {
	var resp models.StatusResponse
	if err := c.do(ctx, op, http.MethodPost, path, requestOptions{body: body}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Message: firstNonEmpty(resp.Error, resp.Message, op+" failed")}
	}
	return nil
}
