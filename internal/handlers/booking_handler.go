package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/internal/services"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookings *services.BookingService
	logger   *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		logger:   logger,
	}
}

// BookSeats handles POST /api/bookSeats
func (h *BookingHandler) BookSeats(c *gin.Context) {
	var req models.BookSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid booking data")
		return
	}

	booking, err := h.bookings.BookSeats(&req)
	if err != nil {
		respondError(c, h.logger, err, "Route not found")
		return
	}

	c.JSON(http.StatusOK, models.BookSeatsResponse{Success: true, BookingID: booking.BookingID})
}

// Book handles the legacy seat-count endpoint POST /api/book
func (h *BookingHandler) Book(c *gin.Context) {
	var req models.LegacyBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid booking data")
		return
	}

	booking, err := h.bookings.BookLegacy(&req)
	if err != nil {
		respondError(c, h.logger, err, "Route not found")
		return
	}

	c.JSON(http.StatusOK, models.LegacyBookResponse{
		Success: true,
		Message: fmt.Sprintf("Booking %s confirmed for %d seat(s)", booking.BookingID, booking.SeatCount),
	})
}

// CancelBooking handles POST /api/cancelBooking
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bookingID and userID are required")
		return
	}

	booking, err := h.bookings.Cancel(req.BookingID, req.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Booking " + booking.BookingID + " cancelled"})
}

// GetBooking handles GET /api/getBooking/:bookingID
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.Get(strings.TrimSpace(c.Param("bookingID")))
	if err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GetUserBookings handles GET /api/getUserBookings/:userID
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	bookings, err := h.bookings.ListByUser(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		respondError(c, h.logger, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListBookings handles GET /api/listBookings (admin)
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.ListAll()
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, bookings)
}
