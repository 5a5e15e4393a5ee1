package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/internal/services"
	"github.com/smarttransit/route-booking/internal/utils"
)

// AdminHandler handles admin authentication
type AdminHandler struct {
	auth   *services.AdminAuthService
	logger *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(auth *services.AdminAuthService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		auth:   auth,
		logger: logger,
	}
}

// Login handles POST /api/adminLogin
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.AdminLoginResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.WithField("ip", utils.GetRealIP(c)).Warn("Failed admin login attempt")
			c.JSON(http.StatusUnauthorized, models.AdminLoginResponse{Error: err.Error()})
			return
		}
		h.logger.WithError(err).Error("Admin login failed")
		c.JSON(http.StatusInternalServerError, models.AdminLoginResponse{Error: "Internal server error"})
		return
	}

	h.logger.WithField("ip", utils.GetRealIP(c)).Info("Admin logged in")
	c.JSON(http.StatusOK, resp)
}
