package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/route-booking/internal/config"
	"github.com/smarttransit/route-booking/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSConfig(t *testing.T) {
	t.Run("Wildcard", func(t *testing.T) {
		c := corsConfig(config.CORSConfig{AllowedOrigins: []string{"*"}})
		assert.True(t, c.AllowAllOrigins)
		assert.Empty(t, c.AllowOrigins)
		assert.NoError(t, c.Validate())
	})

	t.Run("Explicit Origins", func(t *testing.T) {
		c := corsConfig(config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})
		assert.False(t, c.AllowAllOrigins)
		assert.Equal(t, []string{"http://localhost:3000"}, c.AllowOrigins)
		assert.NoError(t, c.Validate())
	})
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		pingErr  error
		expected int
	}{
		{name: "Healthy", expected: http.StatusOK},
		{name: "Database Down", pingErr: errors.New("connection refused"), expected: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer mockDB.Close()
			mock.ExpectPing().WillReturnError(tt.pingErr)

			router := gin.New()
			router.GET("/health", healthCheckHandler(&database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expected, w.Code)
			assert.NotContains(t, w.Body.String(), "connection refused")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
