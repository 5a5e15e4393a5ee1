package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/pkg/geocode"
)

// Geocoder resolves a city name to coordinates
type Geocoder interface {
	Lookup(ctx context.Context, name string) (geocode.Point, error)
}

// RouteService handles route catalog business logic
type RouteService struct {
	repo          *database.RouteRepository
	geocoder      Geocoder
	seatsPerRoute int
	logger        *logrus.Logger
}

// NewRouteService creates a new route service. geocoder may be nil.
func NewRouteService(repo *database.RouteRepository, geocoder Geocoder, seatsPerRoute int, logger *logrus.Logger) *RouteService {
	return &RouteService{
		repo:          repo,
		geocoder:      geocoder,
		seatsPerRoute: seatsPerRoute,
		logger:        logger,
	}
}

// List returns the full catalog
func (s *RouteService) List() ([]models.Route, error) {
	return s.repo.List()
}

// Get returns one route
func (s *RouteService) Get(id int64) (*models.Route, error) {
	return s.repo.GetByID(id)
}

// Find computes the shortest journey between two cities over the catalog
func (s *RouteService) Find(from, to string) (*models.Journey, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return nil, newValidationError("from and to are required")
	}
	routes, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	return FindJourney(routes, from, to)
}

// Add validates and stores a new route together with its seat map
func (s *RouteService) Add(ctx context.Context, req *models.AddRouteRequest) (int64, error) {
	from := strings.TrimSpace(req.From)
	to := strings.TrimSpace(req.To)
	if from == "" || to == "" || req.Distance <= 0 {
		return 0, newValidationError("Invalid route data")
	}
	if strings.EqualFold(from, to) {
		return 0, newValidationError("Invalid route data: from and to must differ")
	}
	if req.TicketPrice != nil && *req.TicketPrice < 0 {
		return 0, newValidationError("Invalid route data: ticket price cannot be negative")
	}

	route := &models.Route{
		From:     from,
		To:       to,
		Distance: req.Distance,
		Coords:   req.Coords,
	}
	// a zero price means the fare is distance based
	if req.TicketPrice != nil && *req.TicketPrice > 0 {
		price := *req.TicketPrice
		route.TicketPrice = &price
	}
	if len(route.Coords) == 0 {
		route.Coords = s.lookupCoords(ctx, from, to)
	}

	id, err := s.repo.Create(route, s.seatsPerRoute)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"route_id": id,
		"from":     from,
		"to":       to,
		"seats":    s.seatsPerRoute,
	}).Info("Route added")
	return id, nil
}

// Remove deletes a route and its seats
func (s *RouteService) Remove(id int64) error {
	if id <= 0 {
		return newValidationError("route_id is required")
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("route_id", id).Info("Route removed")
	return nil
}

// lookupCoords returns a straight two-point path, or an empty path when
// either end cannot be geocoded.
func (s *RouteService) lookupCoords(ctx context.Context, from, to string) models.Coordinates {
	if s.geocoder == nil {
		return models.Coordinates{}
	}
	points := make(models.Coordinates, 0, 2)
	for _, city := range []string{from, to} {
		p, err := s.geocoder.Lookup(ctx, city)
		if err != nil {
			s.logger.WithError(err).WithField("city", city).Warn("Geocoding failed, storing route without coordinates")
			return models.Coordinates{}
		}
		points = append(points, models.Coordinate{Lat: p.Lat, Lng: p.Lng})
	}
	return points
}
