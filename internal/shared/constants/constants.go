package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Table names
	TableUsers          = "users"
	TableTickets        = "tickets"
	TableTicketUpdates  = "ticket_updates"
	TableTicketCounters = "ticket_counters"
	TableAuditLogs      = "audit_logs"
	TableNotifications  = "notifications"
	TableSettings       = "system_settings"
	TableCategories     = "ticket_categories"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultAuditPageSize = 50

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyEmail     = "email"
	ContextKeyUserName  = "user_name"
	ContextKeyRole      = "user_role"
	ContextKeyRequestID = "request_id"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Authentication required"
	ErrMsgForbidden           = "Insufficient permissions"
	ErrMsgTicketNotFound      = "Ticket not found"
)
