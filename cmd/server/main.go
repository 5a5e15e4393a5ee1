package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/config"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/smarttransit/route-booking/internal/handlers"
	"github.com/smarttransit/route-booking/internal/middleware"
	"github.com/smarttransit/route-booking/internal/services"
	"github.com/smarttransit/route-booking/pkg/geocode"
	"github.com/smarttransit/route-booking/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting route booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := database.EnsureSchema(db); err != nil {
		logger.Fatalf("Failed to apply schema: %v", err)
	}

	// Repositories
	routeRepository := database.NewRouteRepository(db)
	seatRepository := database.NewSeatRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	userRepository := database.NewUserRepository(db)

	if cfg.Seats.SeedSampleRoutes {
		seeded, err := database.SeedSampleRoutes(routeRepository, cfg.Seats.PerRoute)
		if err != nil {
			logger.Fatalf("Failed to seed sample routes: %v", err)
		}
		if seeded > 0 {
			logger.WithField("routes", seeded).Info("Seeded sample routes")
		}
	}

	// Services
	var geocoder services.Geocoder
	if cfg.Geocoding.Enabled {
		geocoder = geocode.NewClient(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, cfg.Geocoding.Timeout)
		logger.WithField("url", cfg.Geocoding.BaseURL).Info("Geocoding enabled")
	}

	jwtService := jwt.NewService(cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)
	adminAuthService, err := services.NewAdminAuthService(cfg.Admin.Password, cfg.Admin.BcryptCost, jwtService)
	if err != nil {
		logger.Fatalf("Failed to initialize admin authentication: %v", err)
	}
	routeService := services.NewRouteService(routeRepository, geocoder, cfg.Seats.PerRoute, logger)
	bookingService := services.NewBookingService(bookingRepository, routeRepository, cfg.Seats.LegacyBookingFare, logger)

	// Handlers
	api := &handlers.Handlers{
		Routes:   handlers.NewRouteHandler(routeService, logger),
		Seats:    handlers.NewSeatHandler(seatRepository, routeService, cfg.Seats.PerRoute, logger),
		Bookings: handlers.NewBookingHandler(bookingService, logger),
		Users:    handlers.NewUserHandler(userRepository, logger),
		Admin:    handlers.NewAdminHandler(adminAuthService, logger),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.CORS)))

	router.GET("/health", healthCheckHandler(db))
	api.Register(router.Group("/api"), middleware.AdminAuth(adminAuthService))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// corsConfig turns a lone "*" origin into allow-all, which cors rejects
// alongside an explicit origin list.
func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  cfg.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
