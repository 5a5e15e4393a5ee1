package services

import (
	"testing"

	"github.com/smarttransit/route-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	delhi  = models.Coordinate{Lat: 28.6139, Lng: 77.2090}
	agra   = models.Coordinate{Lat: 27.1767, Lng: 78.0081}
	mumbai = models.Coordinate{Lat: 19.0760, Lng: 72.8777}
	pune   = models.Coordinate{Lat: 18.5204, Lng: 73.8567}
)

func sampleCatalog() []models.Route {
	return []models.Route{
		{ID: 1, From: "Delhi", To: "Agra", Distance: 233, Coords: models.Coordinates{delhi, agra}},
		{ID: 2, From: "Agra", To: "Mumbai", Distance: 1194, Coords: models.Coordinates{agra, mumbai}},
		{ID: 3, From: "Delhi", To: "Jaipur", Distance: 280},
		{ID: 5, From: "Mumbai", To: "Pune", Distance: 148, Coords: models.Coordinates{mumbai, pune}},
		{ID: 8, From: "Kolkata", To: "Patna", Distance: 583},
	}
}

func TestFindJourney_Direct(t *testing.T) {
	journey, err := FindJourney(sampleCatalog(), "Delhi", "Agra")
	require.NoError(t, err)

	assert.Equal(t, []string{"Delhi", "Agra"}, journey.Path)
	assert.Equal(t, 233.0, journey.Distance)
	assert.Equal(t, 126.5, journey.Fare)
	assert.Equal(t, 3.88, journey.Time)
	assert.Equal(t, int64(1), journey.RouteID)
	assert.Equal(t, models.Coordinates{delhi, agra}, journey.Coords)
}

func TestFindJourney_ReverseDirection(t *testing.T) {
	journey, err := FindJourney(sampleCatalog(), "agra", " DELHI ")
	require.NoError(t, err)

	assert.Equal(t, []string{"Agra", "Delhi"}, journey.Path)
	assert.Zero(t, journey.RouteID, "a route travelled backwards is not bookable as-is")
	assert.Equal(t, models.Coordinates{agra, delhi}, journey.Coords)
}

func TestFindJourney_MultiHop(t *testing.T) {
	journey, err := FindJourney(sampleCatalog(), "Delhi", "Pune")
	require.NoError(t, err)

	assert.Equal(t, []string{"Delhi", "Agra", "Mumbai", "Pune"}, journey.Path)
	assert.Equal(t, 1575.0, journey.Distance)
	assert.Equal(t, 797.5, journey.Fare)
	assert.Equal(t, 26.25, journey.Time)
	assert.Zero(t, journey.RouteID)
	assert.Equal(t, models.Coordinates{delhi, agra, mumbai, pune}, journey.Coords)
	assert.Equal(t, "Delhi → Agra → Mumbai → Pune", journey.PathString())
}

func TestFindJourney_PrefersShortestPath(t *testing.T) {
	routes := []models.Route{
		{ID: 1, From: "A", To: "C", Distance: 250},
		{ID: 2, From: "A", To: "B", Distance: 100},
		{ID: 3, From: "B", To: "C", Distance: 100},
	}

	journey, err := FindJourney(routes, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, journey.Path)
	assert.Equal(t, 200.0, journey.Distance)
	assert.Equal(t, 110.0, journey.Fare)
}

func TestFindJourney_Errors(t *testing.T) {
	tests := []struct {
		name       string
		from, to   string
		validation bool
	}{
		{name: "Unknown City", from: "Delhi", to: "Atlantis"},
		{name: "Disconnected", from: "Delhi", to: "Patna"},
		{name: "Same City", from: "Delhi", to: "delhi", validation: true},
		{name: "Missing City", from: "", to: "Agra", validation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journey, err := FindJourney(sampleCatalog(), tt.from, tt.to)
			assert.Nil(t, journey)
			if tt.validation {
				assert.True(t, IsValidationError(err))
				return
			}
			assert.ErrorIs(t, err, ErrNoRoute)
		})
	}
}
