package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/booking"
	"github.com/smarttransit/route-booking/internal/catalog"
	"github.com/smarttransit/route-booking/internal/models"
)

// SearchResult is the outcome of a city search. Route is set when a direct
// route matched and is now bound; otherwise Journey holds the backend's
// multi-hop path, which is shown but cannot be booked.
type SearchResult struct {
	Route   *models.Route
	Journey *models.Journey
}

// Bookable reports whether the search bound a route
func (r *SearchResult) Bookable() bool {
	return r != nil && r.Route != nil
}

// Routes returns the cached route catalog
func (c *Controller) Routes() []models.Route {
	return c.routes.All()
}

// RouteStats summarizes the cached catalog
func (c *Controller) RouteStats() catalog.Stats {
	return c.routes.Stats()
}

// RefreshRoutes reloads the route catalog. The current selection is dropped
// if its route disappeared.
func (c *Controller) RefreshRoutes(ctx context.Context) error {
	if err := c.routes.Refresh(ctx); err != nil {
		return err
	}
	if route, ok := c.booking.Route(); ok {
		if _, still := c.routes.FindByID(route.ID); !still {
			c.logger.WithField("route_id", route.ID).Info("Selected route no longer offered, clearing selection")
			c.booking.Clear()
		}
	}
	return nil
}

// Search starts a new search. Any in-progress selection is discarded first.
// A direct route in the catalog is bound; failing that the backend is asked
// for a path.
func (c *Controller) Search(ctx context.Context, from, to string) (*SearchResult, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, &booking.ValidationError{Field: "cities", Msg: "both origin and destination are required"}
	}

	c.booking.Clear()

	if route, ok := c.routes.FindByCities(from, to); ok {
		c.booking.BindRoute(route)
		c.logger.WithFields(logrus.Fields{"route_id": route.ID, "fare": route.Fare()}).Debug("Route bound from search")
		return &SearchResult{Route: &route}, nil
	}

	journey, err := c.api.FindRoute(ctx, from, to)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s → %s", ErrRouteNotFound, from, to)
		}
		return nil, err
	}
	return &SearchResult{Journey: journey}, nil
}

// SelectRoute binds the catalog route with the given id
func (c *Controller) SelectRoute(id int64) (models.Route, error) {
	route, ok := c.routes.FindByID(id)
	if !ok {
		return models.Route{}, fmt.Errorf("%w: id %d", ErrRouteNotFound, id)
	}
	c.booking.BindRoute(route)
	return route, nil
}

// SelectedRoute returns the bound route
func (c *Controller) SelectedRoute() (models.Route, bool) {
	return c.booking.Route()
}
