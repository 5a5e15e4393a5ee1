package main

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/controller"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliBackend serves one priced route with a six seat map
type cliBackend struct {
	mu       sync.Mutex
	seats    []models.Seat
	users    map[string]models.User
	lastBook *models.BookSeatsRequest
}

func newCLIBackend() *cliBackend {
	seats := models.DefaultSeatMap(6)
	seats[2].Status = models.SeatStatusBooked
	return &cliBackend{seats: seats, users: map[string]models.User{}}
}

func (b *cliBackend) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")

	fare := 25.0
	api.GET("/listRoutes", func(c *gin.Context) {
		c.JSON(http.StatusOK, []models.Route{{ID: 7, From: "CityC", To: "CityD", Distance: 80, TicketPrice: &fare}})
	})

	api.GET("/getSeats/:routeID", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c.Param("routeID") != "7" {
			c.JSON(http.StatusOK, []models.Seat{})
			return
		}
		c.JSON(http.StatusOK, b.seats)
	})

	api.GET("/getSeatStats/:routeID", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, models.StatsFor(b.seats))
	})

	api.POST("/createUser", func(c *gin.Context) {
		var req models.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		u := models.User{UserID: req.UserID, Name: req.Name, Email: req.Email}
		b.users[u.UserID] = u
		c.JSON(http.StatusOK, u)
	})

	api.GET("/getUser/:userID", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		u, ok := b.users[c.Param("userID")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, u)
	})

	api.POST("/bookSeats", func(c *gin.Context) {
		var req models.BookSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lastBook = &req
		for _, id := range req.SeatIDs {
			for i := range b.seats {
				if b.seats[i].SeatID == id {
					b.seats[i].Status = models.SeatStatusBooked
				}
			}
		}
		if u, ok := b.users[req.UserID]; ok {
			u.TotalBookings++
			u.TotalSpent += req.PricePerSeat * float64(len(req.SeatIDs))
			b.users[req.UserID] = u
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "bookingID": "B100"})
	})

	return r
}

func TestRun_SearchToggleBook(t *testing.T) {
	backend := newCLIBackend()
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	ctrl := controller.New(controller.Options{
		API:          apiclient.NewClient(apiclient.Config{BaseURL: server.URL, Timeout: 2 * time.Second}),
		UserStorage:  session.NewMemoryStorage(),
		AdminStorage: session.NewMemoryStorage(),
		NewUserID:    func() string { return "u1" },
	})

	script := strings.Join([]string{
		"9", "", "Asha", "asha@example.com",
		"2", "CityC", "CityD",
		"5", "s1, S2 S3",
		"6",
		"q",
	}, "\n") + "\n"

	var out bytes.Buffer
	a := newApp(ctrl, bufio.NewReader(strings.NewReader(script)), &out)
	require.NoError(t, a.run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Registered Asha, your user id is u1")
	assert.Contains(t, got, "Direct route #7")
	assert.Contains(t, got, "[ S1 ] [ S2 ]   [xS3 ] [ S4 ]")
	assert.Contains(t, got, "5 available, 1 booked, 0 reserved of 6")
	assert.Contains(t, got, "S3 is not available")
	assert.Contains(t, got, "Selected [S1, S2], total ₹50.00")
	assert.Contains(t, got, "Booking confirmed: B100, seats S1, S2, total ₹50.00")
	assert.Contains(t, got, "Logged in as Asha (1 bookings, ₹50.00 spent)")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(got), "Bye"))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.NotNil(t, backend.lastBook)
	assert.Equal(t, int64(7), backend.lastBook.RouteID)
	assert.Equal(t, "u1", backend.lastBook.UserID)
	assert.Equal(t, []string{"S1", "S2"}, backend.lastBook.SeatIDs)
	assert.Equal(t, 25.0, backend.lastBook.PricePerSeat)
	assert.Equal(t, models.SeatStatusBooked, backend.seats[0].Status)
}
