package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/pkg/logger"
)

// Paths polled by infrastructure; logging them would drown everything else.
var unloggedPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// RequestLogger tags each request with an ID, echoes it back in the
// X-Request-ID header and writes one structured line after the handler
// chain completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		if _, skip := unloggedPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.GetLogger().Info()
		switch {
		case status >= 500:
			event = logger.GetLogger().Error()
		case status >= 400:
			event = logger.GetLogger().Warn()
		}

		// The route template keeps one value per endpoint; raw paths carry
		// slugs and IDs and explode the cardinality of any log query.
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		event = event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("bytes_out", c.Writer.Size())
		if userID := GetUserID(c); userID != "" {
			event = event.Str("user_id", userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Msg("http request")
	}
}
