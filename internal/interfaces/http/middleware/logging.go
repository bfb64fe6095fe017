package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// CustomLogger writes one access line per request. Server errors log at
// error level, client errors at warn, everything else at debug.
func CustomLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}
		for _, key := range []string{constants.ContextKeyRequestID, constants.ContextKeyUserID} {
			if v := c.GetString(key); v != "" {
				fields = append(fields, key, v)
			}
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", fields...)
		case status >= 400:
			log.Warnw("request rejected", fields...)
		default:
			log.Debugw("request served", fields...)
		}
	}
}
