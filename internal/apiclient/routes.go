package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/smarttransit/route-booking/internal/models"
)

// ListRoutes fetches the full route catalog
func (c *Client) ListRoutes(ctx context.Context) ([]models.Route, error) {
	var raw []rawRoute
	if err := c.do(ctx, "listRoutes", http.MethodGet, "/api/listRoutes", requestOptions{}, &raw); err != nil {
		return nil, err
	}

	routes := make([]models.Route, 0, len(raw))
	for _, r := range raw {
		routes = append(routes, normalizeRoute(r))
	}
	return routes, nil
}

// FindRoute asks the backend for a path between two cities. The result may
// span several routes and is for display; only a single-route journey
// carries a RouteID.
func (c *Client) FindRoute(ctx context.Context, from, to string) (*models.Journey, error) {
	var raw rawJourney
	req := models.FindRouteRequest{From: from, To: to}
	if err := c.do(ctx, "findRoute", http.MethodPost, "/api/findRoute", requestOptions{body: req}, &raw); err != nil {
		return nil, err
	}
	if raw.Error != "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: raw.Error}
	}
	if len(raw.Path) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "No route found"}
	}

	journey := normalizeJourney(raw)
	return &journey, nil
}

// AddRoute creates a route (admin)
func (c *Client) AddRoute(ctx context.Context, creds AdminCredentials, req models.AddRouteRequest) (int64, error) {
	req.Password = creds.Password

	var resp struct {
		Success bool    `json:"success"`
		ID      flexInt `json:"id"`
		Error   string  `json:"error"`
	}
	if err := c.do(ctx, "addRoute", http.MethodPost, "/api/addRoute", requestOptions{body: req, bearer: creds.Token}, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, &APIError{StatusCode: http.StatusOK, Message: firstNonEmpty(resp.Error, "Failed to add route")}
	}
	return resp.ID.Value, nil
}

// RemoveRoute deletes a route and its seats (admin)
func (c *Client) RemoveRoute(ctx context.Context, creds AdminCredentials, routeID int64) error {
	req := models.RemoveRouteRequest{RouteID: routeID, Password: creds.Password}

	var resp models.StatusResponse
	if err := c.do(ctx, "removeRoute", http.MethodPost, "/api/removeRoute", requestOptions{body: req, bearer: creds.Token}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Message: firstNonEmpty(resp.Error, "Failed to remove route")}
	}
	return nil
}

func routePath(prefix string, routeID int64) string {
	return fmt.Sprintf("%s/%d", prefix, routeID)
}

func adminQuery(creds AdminCredentials) url.Values {
	q := url.Values{}
	if creds.Password != "" {
		q.Set("password", creds.Password)
	}
	return q
}
