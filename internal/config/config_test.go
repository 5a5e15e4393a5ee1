package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/booking?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "admin123", cfg.Admin.Password)
	assert.Equal(t, time.Hour, cfg.Admin.TokenExpiry)
	assert.Equal(t, 40, cfg.Seats.PerRoute)
	assert.True(t, cfg.Seats.SeedSampleRoutes)
	assert.False(t, cfg.Geocoding.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/booking")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SEATS_PER_ROUTE", "24")
	t.Setenv("GEOCODING_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("DATABASE_MAX_CONNECTIONS", "not-a-number")
	t.Setenv("LEGACY_BOOKING_FARE", "12.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Seats.PerRoute)
	assert.True(t, cfg.Geocoding.Enabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, 12.5, cfg.Seats.LegacyBookingFare)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Environment: "development"},
			Database: DatabaseConfig{URL: "postgres://x"},
			Admin:    AdminConfig{Password: "admin123", JWTSecret: "s"},
			Seats:    SeatsConfig{PerRoute: 40},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing database", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL"},
		{"missing jwt secret", func(c *Config) { c.Admin.JWTSecret = "" }, "JWT_SECRET"},
		{"no seats", func(c *Config) { c.Seats.PerRoute = 0 }, "SEATS_PER_ROUTE"},
		{"default password in production", func(c *Config) { c.Server.Environment = "production" }, "ADMIN_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("BOOKING_API_URL", "https://booking.example.com")
	t.Setenv("BOOKING_API_TIMEOUT", "5")
	t.Setenv("BOOKING_STATE_FILE", "/tmp/state.json")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "https://booking.example.com", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/state.json", cfg.StateFile)
	assert.Equal(t, "warn", cfg.LogLevel)

	bad := &ClientConfig{APIURL: "ftp://x", Timeout: time.Second}
	assert.Error(t, bad.Validate())
}
