package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
	adminHandlers "github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/admin"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds the configuration for admin routes
type AdminRouteConfig struct {
	UserHandler          *adminHandlers.UserHandler
	SettingHandler       *adminHandlers.SettingHandler
	CategoryHandler      *adminHandlers.CategoryHandler
	AuditLogHandler      *adminHandlers.AuditLogHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures /api/admin. User and category management need
// user:manage; settings and the audit trail need system:admin.
func SetupAdminRoutes(engine *gin.Engine, config *AdminRouteConfig) {
	require := config.PermissionMiddleware.RequirePermission

	admin := engine.Group("/api/admin")
	admin.Use(config.AuthMiddleware.RequireAuth())
	{
		manage := admin.Group("", require(permission.UserManage))
		manage.GET("/users", config.UserHandler.ListUsers)
		manage.PUT("/users/:id", config.UserHandler.UpdateUser)
		manage.GET("/stats", config.UserHandler.GetStats)
		manage.GET("/categories", config.CategoryHandler.ListCategories)
		manage.POST("/categories", config.CategoryHandler.CreateCategory)

		system := admin.Group("", require(permission.SystemAdmin))
		system.GET("/settings", config.SettingHandler.ListSettings)
		system.PUT("/settings/:key", config.SettingHandler.UpdateSetting)
		system.GET("/audit-logs", config.AuditLogHandler.ListAuditLogs)
	}
}
