package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/smarttransit/route-booking/internal/services"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps service and repository errors to status codes. Unknown
// errors are logged and answered with a generic 500 so SQL never leaks.
func respondError(c *gin.Context, logger *logrus.Logger, err error, notFound string) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFound})
	case errors.Is(err, services.ErrNoRoute):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case database.IsSeatConflict(err), errors.Is(err, database.ErrSeatNotHeld):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrAlreadyCancelled):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Booking is already cancelled"})
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
