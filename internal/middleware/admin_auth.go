package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	adminKey = "admin"
	// maxAdminBody bounds how much of a request body is buffered to look for a password
	maxAdminBody = 1 << 20
)

// AdminAuthorizer checks admin credentials
type AdminAuthorizer interface {
	Authorize(token, password string) error
}

// AdminAuth protects admin endpoints. It accepts a bearer token from
// /api/adminLogin, or the admin password in the JSON body or the
// "password" query parameter. The body is restored for the handler.
func AdminAuth(auth AdminAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		password := c.Query("password")
		if password == "" && c.Request.Body != nil && c.Request.Method != http.MethodGet {
			password = passwordFromBody(c)
		}

		if err := auth.Authorize(token, password); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(adminKey, true)
		c.Next()
	}
}

// IsAdmin reports whether AdminAuth accepted the request
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(adminKey)
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func passwordFromBody(c *gin.Context) string {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAdminBody))
	c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}

	var payload struct {
		Password json.RawMessage `json:"password"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Password) == 0 {
		return ""
	}

	// older admin pages send the password as a number when it is numeric
	var s string
	if err := json.Unmarshal(payload.Password, &s); err == nil {
		return s
	}
	return strings.Trim(string(payload.Password), `"`)
}
