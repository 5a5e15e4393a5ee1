package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/utils"
)

// RequestLogger logs every request once it has been handled
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		client := utils.ParseUserAgent(c.Request.UserAgent())
		fields := logrus.Fields{
			"request_id":  GetRequestID(c),
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"ip":          utils.GetRealIP(c),
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_kind": client.Kind,
		}
		if client.Browser != "" {
			fields["client"] = client.Browser
		}
		if admin, exists := c.Get(adminKey); exists {
			fields["admin"] = admin
		}

		entry := logger.WithFields(fields)
		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request completed")
		}
	}
}
