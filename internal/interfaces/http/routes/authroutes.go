package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimitMiddleware
}

// SetupAuthRoutes configures authentication routes. Every /auth endpoint
// shares one rate-limit bucket per client IP.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	auth.Use(cfg.RateLimiter.Limit("auth"))
	{
		auth.GET("/sso/login", cfg.AuthHandler.InitiateSSO)
		auth.GET("/sso/callback", cfg.AuthHandler.HandleSSOCallback)
		auth.POST("/login", cfg.AuthHandler.DevLogin)

		auth.POST("/logout", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Logout)
		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
	}

	users := engine.Group("/api/users")
	users.Use(cfg.AuthMiddleware.RequireAuth())
	{
		users.GET("/me", cfg.AuthHandler.Me)
	}
}
