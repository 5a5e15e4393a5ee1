package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBooker struct {
	calls    int
	lastReq  models.BookSeatsRequest
	response string
	err      error
}

func (f *fakeBooker) BookSeats(ctx context.Context, req models.BookSeatsRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func TestSubmit_Validation(t *testing.T) {
	user := &models.User{UserID: "u1", Name: "U", Email: "u@x"}

	tests := []struct {
		name  string
		setup func() *Session
		user  *models.User
		field string
	}{
		{
			name:  "No route",
			setup: NewSession,
			user:  user,
			field: "route",
		},
		{
			name: "No user",
			setup: func() *Session {
				s := NewSession()
				s.BindRoute(testRoute())
				_, _ = s.ToggleSeat("S1", models.SeatStatusAvailable)
				return s
			},
			user:  nil,
			field: "user",
		},
		{
			name: "No seats",
			setup: func() *Session {
				s := NewSession()
				s.BindRoute(testRoute())
				return s
			},
			user:  user,
			field: "seats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeBooker{response: "B1"}
			submitter := NewSubmitter(api, nil)

			result, err := submitter.Submit(context.Background(), tt.setup(), tt.user)

			assert.Nil(t, result)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Zero(t, api.calls)
		})
	}
}

func TestSubmit_Scenario(t *testing.T) {
	price := 25.0
	s := NewSession()
	s.BindRoute(models.Route{ID: 7, From: "CityA", To: "CityB", Distance: 80, TicketPrice: &price})
	_, err := s.ToggleSeat("S2", models.SeatStatusAvailable)
	require.NoError(t, err)
	_, err = s.ToggleSeat("S4", models.SeatStatusAvailable)
	require.NoError(t, err)

	api := &fakeBooker{response: "B100"}
	result, err := NewSubmitter(api, nil).Submit(context.Background(), s, &models.User{UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, 1, api.calls)
	assert.Equal(t, models.BookSeatsRequest{
		RouteID:      7,
		RouteInfo:    "CityA → CityB",
		UserID:       "u1",
		SeatIDs:      []string{"S2", "S4"},
		PricePerSeat: 25,
	}, api.lastReq)

	assert.Equal(t, "B100", result.BookingID)
	assert.Equal(t, 50.0, result.Total)
	assert.True(t, s.IsCurrent(result.Generation))

	// the submitter leaves reconciliation to the caller
	assert.Equal(t, []string{"S2", "S4"}, s.Selected())
	s.ReconcileSeats([]models.Seat{
		{SeatID: "S2", Status: models.SeatStatusBooked},
		{SeatID: "S4", Status: models.SeatStatusBooked},
	})
	assert.Empty(t, s.Selected())
}

func TestSubmit_BackendOutcomes(t *testing.T) {
	newSession := func() *Session {
		s := NewSession()
		s.BindRoute(testRoute())
		_, _ = s.ToggleSeat("S2", models.SeatStatusAvailable)
		return s
	}
	user := &models.User{UserID: "u1"}

	t.Run("Rejection is verbatim", func(t *testing.T) {
		api := &fakeBooker{err: &apiclient.APIError{StatusCode: http.StatusConflict, Message: "Seat S2 is not available"}}
		_, err := NewSubmitter(api, nil).Submit(context.Background(), newSession(), user)

		var rejected *RejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "Seat S2 is not available", rejected.Error())
		assert.Equal(t, http.StatusConflict, rejected.StatusCode)
		assert.True(t, IsRejected(err))
		assert.Equal(t, 1, api.calls)
	})

	t.Run("Network failure passes through", func(t *testing.T) {
		api := &fakeBooker{err: &apiclient.NetworkError{Op: "bookSeats", Err: errors.New("connection refused")}}
		_, err := NewSubmitter(api, nil).Submit(context.Background(), newSession(), user)

		assert.True(t, apiclient.IsNetworkError(err))
		assert.False(t, IsRejected(err))
		assert.Equal(t, 1, api.calls)
	})

	t.Run("Gateway outage is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("<html><body>Service Unavailable</body></html>"))
		}))
		defer server.Close()

		client := apiclient.NewClient(apiclient.Config{BaseURL: server.URL, Timeout: time.Second})
		_, err := NewSubmitter(client, nil).Submit(context.Background(), newSession(), user)

		require.Error(t, err)
		assert.True(t, apiclient.IsNetworkError(err))
		assert.False(t, IsRejected(err))
	})

	t.Run("Server refusal with a message is still a rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Seat S2 is not available"}`))
		}))
		defer server.Close()

		client := apiclient.NewClient(apiclient.Config{BaseURL: server.URL, Timeout: time.Second})
		_, err := NewSubmitter(client, nil).Submit(context.Background(), newSession(), user)

		var rejected *RejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "Seat S2 is not available", rejected.Message)
	})
}
