package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

// CORS admits only the configured origins. An empty list admits none.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", constants.HeaderAuthorization, "X-Requested-With", constants.HeaderXRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	cfg.AllowOriginFunc = func(origin string) bool {
		_, ok := allowed[origin]
		return ok
	}

	return cors.New(cfg)
}

// SecurityHeaders returns a middleware that sets security headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// The swagger UI loads its own scripts and styles.
		if !strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		c.Next()
	}
}
