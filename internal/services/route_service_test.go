package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/pkg/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder map[string]geocode.Point

func (s stubGeocoder) Lookup(_ context.Context, name string) (geocode.Point, error) {
	if p, ok := s[name]; ok {
		return p, nil
	}
	return geocode.Point{}, geocode.ErrNotFound
}

func setupRouteService(t *testing.T, geocoder Geocoder) (*RouteService, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewRouteService(database.NewRouteRepository(db), geocoder, 40, quietLogger()), mock
}

func expectCreateRoute(mock sqlmock.Sqlmock, id int64, price interface{}) {
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO routes`).
		WithArgs("CityA", "CityB", 100.0, price, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now()))
	mock.ExpectExec(`INSERT INTO seats`).
		WithArgs(id, 40).
		WillReturnResult(sqlmock.NewResult(0, 40))
	mock.ExpectCommit()
}

func TestRouteService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Zero Price Means Distance Based", func(t *testing.T) {
		service, mock := setupRouteService(t, nil)
		zero := 0.0
		expectCreateRoute(mock, 12, nil)

		id, err := service.Add(ctx, &models.AddRouteRequest{From: " CityA ", To: "CityB", Distance: 100, TicketPrice: &zero})
		require.NoError(t, err)
		assert.Equal(t, int64(12), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Explicit Price", func(t *testing.T) {
		service, mock := setupRouteService(t, nil)
		price := 75.0
		expectCreateRoute(mock, 13, 75.0)

		_, err := service.Add(ctx, &models.AddRouteRequest{From: "CityA", To: "CityB", Distance: 100, TicketPrice: &price})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Data", func(t *testing.T) {
		service, _ := setupRouteService(t, nil)
		negative := -5.0

		for _, req := range []models.AddRouteRequest{
			{From: "", To: "CityB", Distance: 100},
			{From: "CityA", To: "CityB", Distance: 0},
			{From: "CityA", To: "citya", Distance: 10},
			{From: "CityA", To: "CityB", Distance: 10, TicketPrice: &negative},
		} {
			_, err := service.Add(ctx, &req)
			assert.True(t, IsValidationError(err), "%+v", req)
		}
	})
}

func TestRouteService_LookupCoords(t *testing.T) {
	ctx := context.Background()
	geocoder := stubGeocoder{
		"CityA": {Lat: 1, Lng: 2},
		"CityB": {Lat: 3, Lng: 4},
	}
	service, _ := setupRouteService(t, geocoder)

	assert.Equal(t, models.Coordinates{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}, service.lookupCoords(ctx, "CityA", "CityB"))
	assert.Empty(t, service.lookupCoords(ctx, "CityA", "Nowhere"))

	withoutGeocoder, _ := setupRouteService(t, nil)
	assert.Empty(t, withoutGeocoder.lookupCoords(ctx, "CityA", "CityB"))
}

func TestRouteService_Find(t *testing.T) {
	service, mock := setupRouteService(t, nil)

	mock.ExpectQuery(`SELECT (.+) FROM routes ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(routeRowColumns).
			AddRow(1, "CityA", "CityB", 100.0, nil, []byte(`[]`), time.Now()).
			AddRow(2, "CityB", "CityC", 50.0, nil, []byte(`[]`), time.Now()))

	journey, err := service.Find("CityA", "CityC")
	require.NoError(t, err)
	assert.Equal(t, []string{"CityA", "CityB", "CityC"}, journey.Path)
	assert.Equal(t, 85.0, journey.Fare)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = service.Find(" ", "CityC")
	assert.True(t, IsValidationError(err))
}

func TestRouteService_Remove(t *testing.T) {
	service, mock := setupRouteService(t, nil)

	mock.ExpectExec(`DELETE FROM routes`).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 0))

	err := service.Remove(4)
	assert.True(t, errors.Is(err, database.ErrNotFound))
	assert.True(t, IsValidationError(service.Remove(0)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
