package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/models"
)

// ErrNotAdmin is returned by admin operations before a successful AdminLogin
var ErrNotAdmin = errors.New("admin login required")

// AdminLogin checks the admin secret with the backend and keeps it, along
// with any issued token, for later admin calls
func (c *Controller) AdminLogin(ctx context.Context, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is empty", ErrNotAdmin)
	}

	resp, err := c.api.AdminLogin(ctx, password)
	if err != nil {
		return fmt.Errorf("failed to log in as admin: %w", err)
	}
	return c.admin.SaveAdmin(password, resp.Token)
}

// AdminLogout forgets the admin credentials
func (c *Controller) AdminLogout() error {
	return c.admin.ClearAdmin()
}

// IsAdmin reports whether admin credentials are held
func (c *Controller) IsAdmin() bool {
	return c.admin.IsAdmin()
}

// AddRoute creates a route and reloads the catalog
func (c *Controller) AddRoute(ctx context.Context, req models.AddRouteRequest) (int64, error) {
	req.From, req.To = strings.TrimSpace(req.From), strings.TrimSpace(req.To)
	if req.From == "" || req.To == "" {
		return 0, fmt.Errorf("origin and destination are required")
	}
	if req.Distance <= 0 {
		return 0, fmt.Errorf("distance must be positive")
	}
	if req.TicketPrice != nil && *req.TicketPrice <= 0 {
		req.TicketPrice = nil
	}

	creds, err := c.adminCredentials()
	if err != nil {
		return 0, err
	}

	id, err := c.api.AddRoute(ctx, creds, req)
	if err != nil {
		return 0, c.adminError("add route", err)
	}
	if err := c.RefreshRoutes(ctx); err != nil {
		c.logger.WithError(err).Warn("Catalog refresh after adding route failed")
	}
	return id, nil
}

// RemoveRoute deletes a route and reloads the catalog. A selection on the
// removed route is cleared.
func (c *Controller) RemoveRoute(ctx context.Context, routeID int64) error {
	creds, err := c.adminCredentials()
	if err != nil {
		return err
	}

	if err := c.api.RemoveRoute(ctx, creds, routeID); err != nil {
		return c.adminError("remove route", err)
	}
	if route, ok := c.booking.Route(); ok && route.ID == routeID {
		c.booking.Clear()
	}
	if err := c.RefreshRoutes(ctx); err != nil {
		c.logger.WithError(err).Warn("Catalog refresh after removing route failed")
	}
	return nil
}

// AdminBookings lists every booking
func (c *Controller) AdminBookings(ctx context.Context) ([]models.Booking, error) {
	creds, err := c.adminCredentials()
	if err != nil {
		return nil, err
	}
	bookings, err := c.api.ListBookings(ctx, creds)
	if err != nil {
		return nil, c.adminError("list bookings", err)
	}
	return bookings, nil
}

// AdminUsers lists every user
func (c *Controller) AdminUsers(ctx context.Context) ([]models.User, error) {
	creds, err := c.adminCredentials()
	if err != nil {
		return nil, err
	}
	users, err := c.api.ListUsers(ctx, creds)
	if err != nil {
		return nil, c.adminError("list users", err)
	}
	return users, nil
}

func (c *Controller) adminCredentials() (apiclient.AdminCredentials, error) {
	password, ok := c.admin.AdminPassword()
	if !ok {
		return apiclient.AdminCredentials{}, ErrNotAdmin
	}
	token, _ := c.admin.AdminToken()
	return apiclient.AdminCredentials{Password: password, Token: token}, nil
}

// adminError drops stored credentials the backend no longer accepts
func (c *Controller) adminError(op string, err error) error {
	if apiclient.IsUnauthorized(err) {
		if clearErr := c.admin.ClearAdmin(); clearErr != nil {
			c.logger.WithError(clearErr).Warn("Failed to clear admin session")
		}
		return fmt.Errorf("%w: %v", ErrNotAdmin, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
