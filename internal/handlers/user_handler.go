package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/smarttransit/route-booking/internal/models"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	users  *database.UserRepository
	logger *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *database.UserRepository, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// CreateUser handles POST /api/createUser. Registering an existing user id
// returns the stored profile unchanged.
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := bindUser(c)
	if !ok {
		return
	}

	user, err := h.users.Create(req.UserID, req.Name, req.Email)
	if err != nil {
		respondError(c, h.logger, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /api/getUser/:userID
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		respondError(c, h.logger, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles POST /api/updateUser
func (h *UserHandler) UpdateUser(c *gin.Context) {
	req, ok := bindUser(c)
	if !ok {
		return
	}

	user, err := h.users.Update(req.UserID, req.Name, req.Email)
	if err != nil {
		respondError(c, h.logger, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/listUsers (admin)
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, users)
}

func bindUser(c *gin.Context) (*models.CreateUserRequest, bool) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid user data")
		return nil, false
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.UserID == "" || req.Name == "" || !strings.Contains(req.Email, "@") {
		badRequest(c, "userID, name and a valid email are required")
		return nil, false
	}
	return &req, true
}
