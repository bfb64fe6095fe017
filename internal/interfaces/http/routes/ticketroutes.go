package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
	tickethandlers "github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/ticket"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.TicketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupTicketRoutes registers /api/tickets. Comments and cancellation are
// open to the requester as well, so their finer checks happen in the use case.
func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	require := config.PermissionMiddleware.RequirePermission
	h := config.TicketHandler

	tickets := engine.Group("/api/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts
		tickets.POST("", require(permission.TicketCreate), h.CreateTicket)
		tickets.GET("", require(permission.TicketRead), h.ListTickets)
		tickets.GET("/stats", require(permission.TicketRead), h.GetStats)

		tickets.POST("/:id/assign", require(permission.TicketAssign), h.AssignTicket)
		tickets.POST("/:id/close", require(permission.TicketClose), h.CloseTicket)
		tickets.POST("/:id/status", require(permission.TicketUpdate), h.ChangeStatus)
		tickets.POST("/:id/updates", require(permission.TicketRead), h.AddUpdate)
		tickets.POST("/:id/cancel", require(permission.TicketRead), h.CancelTicket)

		tickets.GET("/:id", require(permission.TicketRead), h.GetTicket)
		tickets.PATCH("/:id", require(permission.TicketUpdate), h.PatchTicket)
	}
}
