package database

import (
	_ "embed"
	"fmt"

	"github.com/smarttransit/route-booking/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the booking tables if they do not exist yet
func EnsureSchema(db DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func price(p float64) *float64 { return &p }

// SampleRoutes is the catalog loaded into an empty database
var SampleRoutes = []models.Route{
	{From: "Delhi", To: "Agra", Distance: 233, TicketPrice: price(120),
		Coords: models.Coordinates{{Lat: 28.6139, Lng: 77.2090}, {Lat: 27.1767, Lng: 78.0081}}},
	{From: "Agra", To: "Mumbai", Distance: 1194, TicketPrice: price(600),
		Coords: models.Coordinates{{Lat: 27.1767, Lng: 78.0081}, {Lat: 19.0760, Lng: 72.8777}}},
	{From: "Delhi", To: "Jaipur", Distance: 280, TicketPrice: price(150),
		Coords: models.Coordinates{{Lat: 28.6139, Lng: 77.2090}, {Lat: 26.9124, Lng: 75.7873}}},
	{From: "Jaipur", To: "Udaipur", Distance: 393, TicketPrice: price(200),
		Coords: models.Coordinates{{Lat: 26.9124, Lng: 75.7873}, {Lat: 24.5854, Lng: 73.7125}}},
	{From: "Mumbai", To: "Pune", Distance: 148, TicketPrice: price(85),
		Coords: models.Coordinates{{Lat: 19.0760, Lng: 72.8777}, {Lat: 18.5204, Lng: 73.8567}}},
	{From: "Delhi", To: "Chandigarh", Distance: 243, TicketPrice: price(130),
		Coords: models.Coordinates{{Lat: 28.6139, Lng: 77.2090}, {Lat: 30.7333, Lng: 76.7794}}},
	{From: "Bangalore", To: "Chennai", Distance: 346, TicketPrice: price(180),
		Coords: models.Coordinates{{Lat: 12.9716, Lng: 77.5946}, {Lat: 13.0827, Lng: 80.2707}}},
	{From: "Kolkata", To: "Patna", Distance: 583, TicketPrice: price(300),
		Coords: models.Coordinates{{Lat: 22.5726, Lng: 88.3639}, {Lat: 25.5941, Lng: 85.1376}}},
}

// SeedSampleRoutes loads SampleRoutes when the routes table is empty and
// returns how many routes were added.
func SeedSampleRoutes(repo *RouteRepository, seatsPerRoute int) (int, error) {
	count, err := repo.Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i := range SampleRoutes {
		route := SampleRoutes[i]
		if _, err := repo.Create(&route, seatsPerRoute); err != nil {
			return i, fmt.Errorf("failed to seed route %s: %w", route.Info(), err)
		}
	}
	return len(SampleRoutes), nil
}
