package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/internal/services"
)

// RouteHandler handles route catalog HTTP requests
type RouteHandler struct {
	routes *services.RouteService
	logger *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes *services.RouteService, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{
		routes: routes,
		logger: logger,
	}
}

// ListRoutes handles GET /api/listRoutes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routes.List()
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, routes)
}

// FindRoute handles POST /api/findRoute
func (h *RouteHandler) FindRoute(c *gin.Context) {
	var req models.FindRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "from and to are required")
		return
	}

	journey, err := h.routes.Find(req.From, req.To)
	if err != nil {
		respondError(c, h.logger, err, "No route found")
		return
	}
	c.JSON(http.StatusOK, journey)
}

// AddRoute handles POST /api/addRoute (admin)
func (h *RouteHandler) AddRoute(c *gin.Context) {
	var req models.AddRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid route data")
		return
	}

	id, err := h.routes.Add(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, models.AddRouteResponse{Success: true, ID: id})
}

// RemoveRoute handles POST /api/removeRoute (admin)
func (h *RouteHandler) RemoveRoute(c *gin.Context) {
	var req models.RemoveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "route_id is required")
		return
	}

	if err := h.routes.Remove(req.RouteID); err != nil {
		respondError(c, h.logger, err, "Route not found")
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Route removed"})
}
