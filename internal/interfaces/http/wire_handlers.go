package http

import (
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers"
	adminHandlers "github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/admin"
	reportHandlers "github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/report"
	ticketHandlers "github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	// Auth
	authHandler *handlers.AuthHandler

	// Ticket
	ticketHandler *ticketHandlers.TicketHandler

	// Notification
	notificationHandler *handlers.NotificationHandler
	hubHandler          *handlers.NotificationHubHandler

	// Report
	reportHandler *reportHandlers.Handler

	// Admin
	userHandler     *adminHandlers.UserHandler
	settingHandler  *adminHandlers.SettingHandler
	categoryHandler *adminHandlers.CategoryHandler
	auditLogHandler *adminHandlers.AuditLogHandler

	healthHandler *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	log := c.log
	svcs := c.svcs

	c.hdlrs = &allHandlers{
		authHandler:         handlers.NewAuthHandler(svcs.auth, c.cfg.Server.FrontendCallbackURL, log),
		ticketHandler:       ticketHandlers.NewTicketHandler(svcs.ticket, log),
		notificationHandler: handlers.NewNotificationHandler(svcs.notification, log),
		hubHandler:          handlers.NewNotificationHubHandler(c.hub, c.cfg.Server.AllowedOrigins, log),
		reportHandler:       reportHandlers.NewHandler(svcs.report, log),
		userHandler:         adminHandlers.NewUserHandler(svcs.admin, log),
		settingHandler:      adminHandlers.NewSettingHandler(svcs.admin, log),
		categoryHandler:     adminHandlers.NewCategoryHandler(svcs.admin, log),
		auditLogHandler:     adminHandlers.NewAuditLogHandler(svcs.admin, log),
		healthHandler:       handlers.NewHealthHandler(c.healthChecker, log),
	}
}
