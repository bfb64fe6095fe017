package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/infrastructure/ratelimit"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

// RateLimitMiddleware limits requests per client IP with a fixed-window
// counter. Backed by redis, the count is shared between instances.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	policy  ratelimit.Policy
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter, policy ratelimit.Policy, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		policy:  policy,
		logger:  logger,
	}
}

// Limit counts requests under scope, so separate route groups do not share
// a budget. A nil middleware lets everything through.
func (m *RateLimitMiddleware) Limit(scope string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		res, err := m.limiter.Allow(c.Request.Context(), key, m.policy)
		if err != nil {
			// Fail open: a limiter outage must not lock users out.
			m.logger.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(m.policy.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retry := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			m.logger.Warnw("rate limit exceeded", "scope", scope, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
