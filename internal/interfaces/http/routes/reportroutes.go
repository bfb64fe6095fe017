package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
	reporthandlers "github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/report"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
)

type ReportRouteConfig struct {
	ReportHandler        *reporthandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// ExportPathPrefix is excluded from the request timeout; large exports
// stream for longer.
const ExportPathPrefix = "/api/reports/tickets/export"

func SetupReportRoutes(engine *gin.Engine, config *ReportRouteConfig) {
	require := config.PermissionMiddleware.RequirePermission

	reports := engine.Group("/api/reports")
	reports.Use(config.AuthMiddleware.RequireAuth())
	{
		reports.GET("/tickets/summary", require(permission.ReportsView), config.ReportHandler.GetSummary)
		reports.GET("/users/activity", require(permission.ReportsView), config.ReportHandler.GetUserActivity)
		reports.GET("/tickets/export/csv", require(permission.ReportsExport), config.ReportHandler.ExportCSV)
		reports.GET("/tickets/export/excel", require(permission.ReportsExport), config.ReportHandler.ExportExcel)
	}
}
