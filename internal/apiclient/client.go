package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every backend call; expiry surfaces as a NetworkError
const DefaultTimeout = 15 * time.Second

// Config holds configuration for the booking API client
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Client talks to the booking backend REST API. All responses are passed
// through the normalizing adapters in normalize.go before they reach callers.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logrus.FieldLogger
}

// NewClient creates a new booking API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// AdminCredentials carries the shared admin secret and, when one has been
// issued, the bearer token returned by adminLogin.
type AdminCredentials struct {
	Password string
	Token    string
}

type requestOptions struct {
	query  url.Values
	body   interface{}
	bearer string
}

// do performs one HTTP exchange. Transport, read and decode failures become
// *NetworkError; non-2xx responses become *APIError carrying the backend's
// own message.
func (c *Client) do(ctx context.Context, op, method, path string, opts requestOptions, out interface{}) error {
	endpoint := c.baseURL + path
	if len(opts.query) > 0 {
		endpoint += "?" + opts.query.Encode()
	}

	var body io.Reader
	if opts.body != nil {
		jsonData, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if opts.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+opts.bearer)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"op": op, "path": path}).WithError(err).Warn("Backend request failed")
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"op":         op,
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := errorMessage(resp.StatusCode, respBody)
		if unavailable(resp.StatusCode, respBody) {
			c.logger.WithFields(logrus.Fields{"op": op, "path": path, "status": resp.StatusCode}).Warn("Backend unavailable")
			return &NetworkError{Op: op, Err: fmt.Errorf("backend returned %d: %s", resp.StatusCode, message)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

// unavailable reports whether a failed response is a transient outage rather
// than a refusal: gateway errors, and server errors that carry no JSON message.
func unavailable(status int, body []byte) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return status >= 500 && jsonMessage(body) == ""
}

// jsonMessage extracts the backend-provided message from an error body.
// Flask-style {"error"}, gin-style {"message"} and FastAPI-style {"detail"}
// are all accepted.
func jsonMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.Error != "":
		return payload.Error
	case payload.Message != "":
		return payload.Message
	}
	return payload.Detail
}

func errorMessage(status int, body []byte) string {
	if message := jsonMessage(body); message != "" {
		return message
	}

	text := strings.TrimSpace(string(body))
	if text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
