package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
)

type NotificationRouteConfig struct {
	NotificationHandler *handlers.NotificationHandler
	HubHandler          *handlers.NotificationHubHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupNotificationRoutes(engine *gin.Engine, config *NotificationRouteConfig) {
	notifications := engine.Group("/api/notifications")
	notifications.Use(config.AuthMiddleware.RequireAuth())
	{
		notifications.GET("", config.NotificationHandler.ListNotifications)
		notifications.GET("/unread-count", config.NotificationHandler.GetUnreadCount)
		notifications.PUT("/read-all", config.NotificationHandler.MarkAllAsRead)
		notifications.PUT("/:id/read", config.NotificationHandler.MarkAsRead)
	}

	// Browsers cannot set headers on the upgrade request.
	engine.GET("/ws", config.AuthMiddleware.RequireAuthOrQueryToken(), config.HubHandler.NotificationWS)
}
