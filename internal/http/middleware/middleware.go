// Package middleware provides engine-level HTTP middleware.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"flowboard_backend/platform/logger"
)

// RequestLogger logs each request with method, path, status, and duration.
// Health checks are skipped to keep the logs readable.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/api/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
