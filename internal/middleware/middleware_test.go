package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthorizer struct {
	token    string
	password string
}

func (s stubAuthorizer) Authorize(token, password string) error {
	if (token != "" && token == s.token) || (password != "" && password == s.password) {
		return nil
	}
	return errors.New("Invalid password")
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAdminAuth(t *testing.T) {
	router := setupTestRouter()
	auth := AdminAuth(stubAuthorizer{token: "tok", password: "admin123"})

	var seenBody string
	router.POST("/api/addRoute", auth, func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		seenBody = string(body)
		assert.True(t, IsAdmin(c))
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.GET("/api/listUsers", auth, func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		bearer   string
		expected int
	}{
		{name: "Password In Body", method: "POST", target: "/api/addRoute", body: `{"from":"A","password":"admin123"}`, expected: http.StatusOK},
		{name: "Numeric Password In Body", method: "POST", target: "/api/addRoute", body: `{"password":123}`, expected: http.StatusUnauthorized},
		{name: "Wrong Password In Body", method: "POST", target: "/api/addRoute", body: `{"password":"nope"}`, expected: http.StatusUnauthorized},
		{name: "Bearer Token", method: "POST", target: "/api/addRoute", body: `{"from":"A"}`, bearer: "tok", expected: http.StatusOK},
		{name: "Password In Query", method: "GET", target: "/api/listUsers?password=admin123", expected: http.StatusOK},
		{name: "No Credentials", method: "GET", target: "/api/listUsers", expected: http.StatusUnauthorized},
		{name: "Malformed Body", method: "POST", target: "/api/addRoute", body: `{`, expected: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
			if tt.expected == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			}
		})
	}

	t.Run("Body Restored For Handler", func(t *testing.T) {
		payload := `{"from":"A","to":"B","password":"admin123"}`
		req := httptest.NewRequest("POST", "/api/addRoute", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, payload, seenBody)
	})
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken(""))
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

		rid := w.Header().Get("X-Request-ID")
		assert.Len(t, rid, 36)
		assert.Equal(t, rid, w.Body.String())
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	router := setupTestRouter()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/api/getSeats/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	req := httptest.NewRequest("GET", "/api/getSeats/9", nil)
	req.Header.Set("User-Agent", "curl/8.4.0")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 404, entry.Data["status"])
	assert.Equal(t, "/api/getSeats/9", entry.Data["path"])
	assert.Equal(t, "cli", entry.Data["client_kind"])
	assert.NotEmpty(t, entry.Data["request_id"])
}
