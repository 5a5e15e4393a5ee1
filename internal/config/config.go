package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the booking backend
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Admin authentication configuration
	Admin AdminConfig

	// Seat map configuration
	Seats SeatsConfig

	// Geocoding configuration
	Geocoding GeocodingConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// AdminConfig holds the shared admin secret and the bearer token settings
type AdminConfig struct {
	Password    string
	JWTSecret   string
	TokenExpiry time.Duration
	BcryptCost  int
}

// SeatsConfig holds seat map configuration
type SeatsConfig struct {
	PerRoute          int
	SeedSampleRoutes  bool
	LegacyBookingFare float64 // fallback per-seat price for /api/book without a price
}

// GeocodingConfig holds Nominatim configuration
type GeocodingConfig struct {
	Enabled   bool
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Admin: AdminConfig{
			Password:    getEnv("ADMIN_PASSWORD", "admin123"),
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenExpiry: time.Duration(getEnvAsInt("ADMIN_TOKEN_EXPIRY", 3600)) * time.Second,
			BcryptCost:  getEnvAsInt("BCRYPT_COST", 10),
		},
		Seats: SeatsConfig{
			PerRoute:          getEnvAsInt("SEATS_PER_ROUTE", 40),
			SeedSampleRoutes:  getEnvAsBool("SEED_SAMPLE_ROUTES", true),
			LegacyBookingFare: getEnvAsFloat("LEGACY_BOOKING_FARE", 0),
		},
		Geocoding: GeocodingConfig{
			Enabled:   getEnvAsBool("GEOCODING_ENABLED", false),
			BaseURL:   getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("NOMINATIM_USER_AGENT", "route-booking/1.0"),
			Timeout:   time.Duration(getEnvAsInt("NOMINATIM_TIMEOUT", 10)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Request-ID"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}

	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Seats.PerRoute <= 0 {
		return fmt.Errorf("SEATS_PER_ROUTE must be positive, got %d", c.Seats.PerRoute)
	}

	if c.Server.Environment == "production" && c.Admin.Password == "admin123" {
		return fmt.Errorf("ADMIN_PASSWORD must be changed from the default in production")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ClientConfig holds configuration for the booking client
type ClientConfig struct {
	APIURL    string
	Timeout   time.Duration
	StateFile string
	LogLevel  string
}

// LoadClient loads booking client configuration from environment variables.
// Flags parsed by the CLI override these values.
func LoadClient() (*ClientConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &ClientConfig{
		APIURL:    getEnv("BOOKING_API_URL", "http://localhost:5000"),
		Timeout:   time.Duration(getEnvAsInt("BOOKING_API_TIMEOUT", 15)) * time.Second,
		StateFile: getEnv("BOOKING_STATE_FILE", defaultStateFile()),
		LogLevel:  getEnv("LOG_LEVEL", "warn"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("BOOKING_API_URL is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("BOOKING_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("BOOKING_API_TIMEOUT must be positive")
	}
	return nil
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".route-booking.json"
	}
	return dir + string(os.PathSeparator) + "route-booking" + string(os.PathSeparator) + "state.json"
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid float value for %s, using default: %g", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
