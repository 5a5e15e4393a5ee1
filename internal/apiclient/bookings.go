package apiclient

import (
	"context"
	"net/http"

	"github.com/smarttransit/route-booking/internal/models"
)

// BookSeats submits a seat-level booking. A refusal (non-2xx or
// success=false) is returned as *APIError with the backend message intact.
func (c *Client) BookSeats(ctx context.Context, req models.BookSeatsRequest) (string, error) {
	var resp struct {
		Success   bool       `json:"success"`
		BookingID flexString `json:"bookingID"`
		Error     string     `json:"error"`
		Message   string     `json:"message"`
	}
	if err := c.do(ctx, "bookSeats", http.MethodPost, "/api/bookSeats", requestOptions{body: req}, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.BookingID == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: firstNonEmpty(resp.Error, resp.Message, "Booking failed")}
	}
	return string(resp.BookingID), nil
}

// Book calls the superseded count-based booking endpoint
func (c *Client) Book(ctx context.Context, req models.LegacyBookRequest) (string, error) {
	var resp models.LegacyBookResponse
	if err := c.do(ctx, "book", http.MethodPost, "/api/book", requestOptions{body: req}, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &APIError{StatusCode: http.StatusOK, Message: firstNonEmpty(resp.Error, resp.Message, "Booking failed")}
	}
	return resp.Message, nil
}

// GetUserBookings lists a user's bookings, newest first as the backend orders them
func (c *Client) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return c.fetchBookings(ctx, "getUserBookings", "/api/getUserBookings/"+pathEscape(userID), requestOptions{})
}

// GetBooking fetches one booking by id
func (c *Client) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var raw rawBooking
	if err := c.do(ctx, "getBooking", http.MethodGet, "/api/getBooking/"+pathEscape(bookingID), requestOptions{}, &raw); err != nil {
		return nil, err
	}
	booking := normalizeBooking(raw)
	return &booking, nil
}

// CancelBooking cancels a user's booking and frees its seats
func (c *Client) CancelBooking(ctx context.Context, bookingID, userID string) error {
	return c.statusCall(ctx, "cancelBooking", "/api/cancelBooking", models.CancelBookingRequest{BookingID: bookingID, UserID: userID})
}

// ListBookings lists every booking (admin)
func (c *Client) ListBookings(ctx context.Context, creds AdminCredentials) ([]models.Booking, error) {
	return c.fetchBookings(ctx, "listBookings", "/api/listBookings", requestOptions{query: adminQuery(creds), bearer: creds.Token})
}

func (c *Client) fetchBookings(ctx context.Context, op, path string, opts requestOptions) ([]models.Booking, error) {
	var raw []rawBooking
	if err := c.do(ctx, op, http.MethodGet, path, opts, &raw); err != nil {
		return nil, err
	}

	bookings := make([]models.Booking, 0, len(raw))
	for _, r := range raw {
		bookings = append(bookings, normalizeBooking(r))
	}
	return bookings, nil
}
