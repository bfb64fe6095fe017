package http

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/routes"

	_ "github.com/csc-helpdesk/csc/docs"
)

// SetupRoutes configures global middleware and all HTTP routes.
func (c *Container) SetupRoutes() {
	cfg := c.cfg

	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.RequestMeta(c.log))
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.ErrorHandler(c.log))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	// Websocket sessions and streamed exports outlive the request timeout.
	c.engine.Use(middleware.Timeout(cfg.Server.RequestTimeout(), "/ws", routes.ExportPathPrefix))

	if cfg.Server.EnableSwagger {
		c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)

	routes.SetupAuthRoutes(c.engine, &routes.AuthRouteConfig{
		AuthHandler:    c.hdlrs.authHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.rateLimitMiddleware,
	})

	routes.SetupTicketRoutes(c.engine, &routes.TicketRouteConfig{
		TicketHandler:        c.hdlrs.ticketHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupNotificationRoutes(c.engine, &routes.NotificationRouteConfig{
		NotificationHandler: c.hdlrs.notificationHandler,
		HubHandler:          c.hdlrs.hubHandler,
		AuthMiddleware:      c.authMiddleware,
	})

	routes.SetupReportRoutes(c.engine, &routes.ReportRouteConfig{
		ReportHandler:        c.hdlrs.reportHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		UserHandler:          c.hdlrs.userHandler,
		SettingHandler:       c.hdlrs.settingHandler,
		CategoryHandler:      c.hdlrs.categoryHandler,
		AuditLogHandler:      c.hdlrs.auditLogHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// StartBackground starts the maintenance scheduler and the push relay.
func (c *Container) StartBackground() {
	if c.scheduler != nil {
		c.scheduler.Start()
	}

	if c.relay != nil && c.relayCancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		c.relayCancel = cancel
		c.group.Go("notification-relay", func() {
			if err := c.relay.Run(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
				c.log.Errorw("notification relay stopped", "error", err)
			}
		})
	}
}

// Shutdown stops background work and releases connections. The database is
// owned by the caller.
func (c *Container) Shutdown() {
	if c.relayCancel != nil {
		c.relayCancel()
	}

	// Close websocket sessions first so the HTTP server can drain quickly
	if c.hub != nil {
		c.hub.Shutdown()
	}

	if c.scheduler != nil {
		if err := c.scheduler.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	// Wait for in-flight notification e-mails and the relay subscriber
	if c.group != nil {
		c.group.Wait()
	}

	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.log.Errorw("failed to close event publisher", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
