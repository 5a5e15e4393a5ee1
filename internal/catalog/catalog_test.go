package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/smarttransit/route-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	routes []models.Route
	err    error
	calls  int
}

func (s *stubLister) ListRoutes(ctx context.Context) ([]models.Route, error) {
	s.calls++
	return s.routes, s.err
}

func price(v float64) *float64 { return &v }

func sampleRoutes() []models.Route {
	return []models.Route{
		{ID: 1, From: "Delhi", To: "Agra", Distance: 233, TicketPrice: price(120)},
		{ID: 2, From: "Agra", To: "Mumbai", Distance: 1194, TicketPrice: price(600)},
		{ID: 3, From: "CityA", To: "CityB", Distance: 100},
		{ID: 4, From: "delhi", To: "agra", Distance: 240},
	}
}

func TestRefresh(t *testing.T) {
	lister := &stubLister{routes: sampleRoutes()}
	c := New(lister, nil)
	assert.True(t, c.LastRefreshed().IsZero())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 4, c.Len())
	assert.False(t, c.LastRefreshed().IsZero())

	t.Run("Failure keeps previous routes", func(t *testing.T) {
		lister.err = errors.New("connection refused")
		lister.routes = nil

		err := c.Refresh(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, 4, c.Len())
	})

	t.Run("Success replaces wholesale", func(t *testing.T) {
		lister.err = nil
		lister.routes = []models.Route{{ID: 9, From: "Mumbai", To: "Pune", Distance: 148}}

		require.NoError(t, c.Refresh(context.Background()))
		assert.Equal(t, 1, c.Len())
		_, ok := c.FindByID(1)
		assert.False(t, ok)
	})
}

func TestRefresh_FailureOnEmpty(t *testing.T) {
	c := New(&stubLister{err: errors.New("timeout")}, nil)
	assert.Error(t, c.Refresh(context.Background()))
	assert.Empty(t, c.All())
}

func TestFindByCities(t *testing.T) {
	c := New(&stubLister{routes: sampleRoutes()}, nil)
	require.NoError(t, c.Refresh(context.Background()))

	tests := []struct {
		name     string
		from, to string
		wantID   int64
		found    bool
	}{
		{"Exact", "Delhi", "Agra", 1, true},
		{"Case insensitive returns first match", "DELHI", "agra", 1, true},
		{"Whitespace trimmed", " CityA ", "CityB ", 3, true},
		{"Direction matters", "Agra", "Delhi", 0, false},
		{"No multi-hop", "Delhi", "Mumbai", 0, false},
		{"No partial match", "Del", "Agra", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := c.FindByCities(tt.from, tt.to)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, r.ID)
		})
	}
}

func TestFindByID(t *testing.T) {
	c := New(&stubLister{routes: sampleRoutes()}, nil)
	require.NoError(t, c.Refresh(context.Background()))

	r, ok := c.FindByID(2)
	require.True(t, ok)
	assert.Equal(t, "Mumbai", r.To)

	_, ok = c.FindByID(42)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	c := New(&stubLister{routes: sampleRoutes()}, nil)
	require.NoError(t, c.Refresh(context.Background()))

	stats := c.Stats()
	assert.Equal(t, 4, stats.Routes)
	assert.Equal(t, 2, stats.PricedRoutes)
	assert.Equal(t, 360.0, stats.AvgTicket)
}

func TestAll_IsCopy(t *testing.T) {
	c := New(&stubLister{routes: sampleRoutes()}, nil)
	require.NoError(t, c.Refresh(context.Background()))

	all := c.All()
	all[0].From = "Changed"
	r, _ := c.FindByID(1)
	assert.Equal(t, "Delhi", r.From)
}
