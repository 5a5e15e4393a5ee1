package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/internal/services"
)

// SeatHandler handles seat map HTTP requests
type SeatHandler struct {
	seats         *database.SeatRepository
	routes        *services.RouteService
	seatsPerRoute int
	logger        *logrus.Logger
}

// NewSeatHandler creates a new seat handler
func NewSeatHandler(seats *database.SeatRepository, routes *services.RouteService, seatsPerRoute int, logger *logrus.Logger) *SeatHandler {
	return &SeatHandler{
		seats:         seats,
		routes:        routes,
		seatsPerRoute: seatsPerRoute,
		logger:        logger,
	}
}

// GetSeats handles GET /api/getSeats/:routeID
func (h *SeatHandler) GetSeats(c *gin.Context) {
	routeID, ok := h.existingRoute(c, c.Param("routeID"))
	if !ok {
		return
	}
	seats, err := h.seats.ListByRoute(routeID)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, seats)
}

// GetSeatStats handles GET /api/getSeatStats/:routeID
func (h *SeatHandler) GetSeatStats(c *gin.Context) {
	routeID, ok := h.existingRoute(c, c.Param("routeID"))
	if !ok {
		return
	}
	stats, err := h.seats.Stats(routeID)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetAvailableSeats handles GET /api/getAvailableSeats/:routeID
func (h *SeatHandler) GetAvailableSeats(c *gin.Context) {
	h.seatsByStatus(c, c.Param("routeID"), models.SeatStatusAvailable)
}

// GetBookedSeats handles GET /api/getBookedSeats?route_id=
func (h *SeatHandler) GetBookedSeats(c *gin.Context) {
	h.seatsByStatus(c, c.Query("route_id"), models.SeatStatusBooked)
}

func (h *SeatHandler) seatsByStatus(c *gin.Context, rawID string, status models.SeatStatus) {
	routeID, ok := h.existingRoute(c, rawID)
	if !ok {
		return
	}
	seats, err := h.seats.ListByStatus(routeID, status)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, seats)
}

// InitSeats handles POST /api/initSeats
func (h *SeatHandler) InitSeats(c *gin.Context) {
	var req models.InitSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "routeID is required")
		return
	}
	if _, ok := h.existingRoute(c, strconv.FormatInt(req.RouteID, 10)); !ok {
		return
	}

	created, err := h.seats.InitSeats(req.RouteID, h.seatsPerRoute)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{
		Success: true,
		Message: fmt.Sprintf("Initialized %d seats", created),
	})
}

// ReserveSeat handles POST /api/reserveSeat
func (h *SeatHandler) ReserveSeat(c *gin.Context) {
	req, ok := bindSeatHold(c)
	if !ok {
		return
	}
	if err := h.seats.Reserve(req.RouteID, req.SeatID, req.UserID); err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Seat " + req.SeatID + " reserved"})
}

// ReleaseSeat handles POST /api/releaseSeat
func (h *SeatHandler) ReleaseSeat(c *gin.Context) {
	req, ok := bindSeatHold(c)
	if !ok {
		return
	}
	if err := h.seats.Release(req.RouteID, req.SeatID, req.UserID); err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Seat " + req.SeatID + " released"})
}

func bindSeatHold(c *gin.Context) (*models.SeatHoldRequest, bool) {
	var req models.SeatHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return nil, false
	}
	req.SeatID = strings.TrimSpace(req.SeatID)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.SeatID == "" || req.UserID == "" {
		badRequest(c, "Invalid request")
		return nil, false
	}
	return &req, true
}

// existingRoute parses a route id and answers 404 when the route is unknown
func (h *SeatHandler) existingRoute(c *gin.Context, rawID string) (int64, bool) {
	routeID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || routeID <= 0 {
		badRequest(c, "Invalid route id")
		return 0, false
	}
	if _, err := h.routes.Get(routeID); err != nil {
		respondError(c, h.logger, err, "Route not found")
		return 0, false
	}
	return routeID, true
}
