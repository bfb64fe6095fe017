package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/csc-helpdesk/csc/internal/application/audit"
	domainaudit "github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const maxRequestIDLen = 64

// RequestMeta tags each request with an ID (echoed in X-Request-ID) and
// carries the client IP and user agent into the request context, where
// the audit recorder and request-scoped logger pick them up.
func RequestMeta(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(constants.HeaderXRequestID))
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		ctx := audit.WithRequestMeta(c.Request.Context(), domainaudit.RequestMeta{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		ctx = logger.IntoContext(ctx, log.With("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Timeout bounds the request context. Paths under skipPrefixes (long-lived
// streams) keep the server context.
func Timeout(d time.Duration, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
