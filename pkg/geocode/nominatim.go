package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "RouteBooking/1.0"
)

// ErrNotFound is returned when Nominatim has no match for a place
var ErrNotFound = errors.New("place not found")

// Point is a WGS84 coordinate
type Point struct {
	Lat float64
	Lng float64
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client resolves city names to coordinates. Results, including misses, are
// cached per normalized name for the lifetime of the client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[string]*Point
}

// NewClient creates a Nominatim client
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[string]*Point),
	}
}

// Lookup returns the coordinates of the best match for name
func (c *Client) Lookup(ctx context.Context, name string) (Point, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Point{}, ErrNotFound
	}

	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		if cached == nil {
			return Point{}, ErrNotFound
		}
		return *cached, nil
	}

	point, err := c.search(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		// transient failures are not cached
		return Point{}, err
	}

	c.mu.Lock()
	c.cache[key] = point
	c.mu.Unlock()

	if point == nil {
		return Point{}, ErrNotFound
	}
	return *point, nil
}

func (c *Client) search(ctx context.Context, name string) (*Point, error) {
	params := url.Values{}
	params.Add("q", name)
	params.Add("format", "json")
	params.Add("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach geocoding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocoding response: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return &Point{Lat: lat, Lng: lng}, nil
}
