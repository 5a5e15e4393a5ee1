package apiclient

import (
	"context"
	"net/http"

	"github.com/smarttransit/route-booking/internal/models"
)

// CreateUser registers a user, or returns the existing record when the id is
// already known.
func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	return c.userCall(ctx, "createUser", http.MethodPost, "/api/createUser", requestOptions{body: req})
}

// UpdateUser changes a user's name and email
func (c *Client) UpdateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	return c.userCall(ctx, "updateUser", http.MethodPost, "/api/updateUser", requestOptions{body: req})
}

// GetUser fetches a user with server-maintained totals
func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return c.userCall(ctx, "getUser", http.MethodGet, "/api/getUser/"+pathEscape(userID), requestOptions{})
}

func (c *Client) userCall(ctx context.Context, op, method, path string, opts requestOptions) (*models.User, error) {
	var raw rawUser
	if err := c.do(ctx, op, method, path, opts, &raw); err != nil {
		return nil, err
	}
	user := normalizeUser(raw)
	return &user, nil
}

// ListUsers lists every user (admin)
func (c *Client) ListUsers(ctx context.Context, creds AdminCredentials) ([]models.User, error) {
	var raw []rawUser
	if err := c.do(ctx, "listUsers", http.MethodGet, "/api/listUsers", requestOptions{query: adminQuery(creds), bearer: creds.Token}, &raw); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(raw))
	for _, r := range raw {
		users = append(users, normalizeUser(r))
	}
	return users, nil
}

// AdminLogin checks the shared admin secret. The returned token is empty when
// the backend predates bearer tokens.
func (c *Client) AdminLogin(ctx context.Context, password string) (*models.AdminLoginResponse, error) {
	var resp models.AdminLoginResponse
	if err := c.do(ctx, "adminLogin", http.MethodPost, "/api/adminLogin", requestOptions{body: models.AdminLoginRequest{Password: password}}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusUnauthorized, Message: firstNonEmpty(resp.Error, resp.Message, "Invalid password")}
	}
	return &resp, nil
}
