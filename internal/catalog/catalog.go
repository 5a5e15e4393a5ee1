package catalog

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/models"
)

// RouteLister fetches the full route list from the backend
type RouteLister interface {
	ListRoutes(ctx context.Context) ([]models.Route, error)
}

// Stats summarizes the cached catalog
type Stats struct {
	Routes       int
	AvgTicket    float64 // average over routes with an explicit ticket price
	PricedRoutes int
}

// Catalog caches the route list. It is replaced wholesale on each refresh,
// never patched.
type Catalog struct {
	mu          sync.RWMutex
	source      RouteLister
	logger      logrus.FieldLogger
	routes      []models.Route
	byID        map[int64]int
	refreshedAt time.Time
}

// New creates an empty catalog backed by source
func New(source RouteLister, logger logrus.FieldLogger) *Catalog {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Catalog{source: source, logger: logger, byID: map[int64]int{}}
}

// Refresh replaces the cached routes with the backend's list. On failure the
// previous contents are kept and the error is returned.
func (c *Catalog) Refresh(ctx context.Context) error {
	routes, err := c.source.ListRoutes(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Route catalog refresh failed, keeping previous routes")
		return fmt.Errorf("failed to refresh routes: %w", err)
	}

	byID := make(map[int64]int, len(routes))
	for i, r := range routes {
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = i
		}
	}

	c.mu.Lock()
	c.routes = routes
	c.byID = byID
	c.refreshedAt = time.Now()
	c.mu.Unlock()

	c.logger.WithField("routes", len(routes)).Debug("Route catalog refreshed")
	return nil
}

// FindByCities returns the first route from -> to, ignoring case. Only direct
// routes are considered.
func (c *Catalog) FindByCities(from, to string) (models.Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.routes {
		if r.Matches(from, to) {
			return r, true
		}
	}
	return models.Route{}, false
}

// FindByID returns the route with the given id
func (c *Catalog) FindByID(id int64) (models.Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return models.Route{}, false
	}
	return c.routes[i], true
}

// All returns a copy of the cached routes in backend order
func (c *Catalog) All() []models.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Route(nil), c.routes...)
}

// Len returns the number of cached routes
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.routes)
}

// Stats summarizes the cached routes
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{Routes: len(c.routes)}
	var sum float64
	for _, r := range c.routes {
		if r.HasTicketPrice() {
			sum += *r.TicketPrice
			stats.PricedRoutes++
		}
	}
	if stats.PricedRoutes > 0 {
		stats.AvgTicket = sum / float64(stats.PricedRoutes)
	}
	return stats
}

// LastRefreshed returns the time of the last successful refresh, zero if none
func (c *Catalog) LastRefreshed() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
