// app/requestmw.go
package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestID"
)

// RequestLogger tags each request with an id (reusing the caller's when
// sent) and logs one line when it finishes.
func RequestLogger(lg *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		start := time.Now()
		c.Next()

		attrs := []any{
			"requestId", rid,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		}
		if action := c.Query("action"); action != "" {
			attrs = append(attrs, "action", action)
		}
		switch {
		case c.Writer.Status() >= 500:
			lg.Error("request", attrs...)
		case c.Writer.Status() >= 400:
			lg.Warn("request", attrs...)
		default:
			lg.Debug("request", attrs...)
		}
	}
}

// RequestID returns the id RequestLogger attached to c, if any.
func RequestID(c *gin.Context) string { return c.GetString(RequestIDKey) }
