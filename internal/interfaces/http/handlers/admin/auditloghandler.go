package admin

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	auditusecases "github.com/csc-helpdesk/csc/internal/application/audit/usecases"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

// AuditLogHandler serves the audit trail.
type AuditLogHandler struct {
	service auditLogService
	logger  logger.Interface
}

func NewAuditLogHandler(service auditLogService, logger logger.Interface) *AuditLogHandler {
	return &AuditLogHandler{service: service, logger: logger}
}

// ListAuditLogs godoc
// @Summary List audit logs
// @Description Newest first. Dates are YYYY-MM-DD business days or RFC3339 timestamps; a date-only end_date includes the whole day.
// @Security Bearer
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(50)
// @Param action query string false "Action, e.g. TICKET_CREATED"
// @Param user_id query string false "Acting user ID"
// @Param start_date query string false "From"
// @Param end_date query string false "To"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse} "Audit logs"
// @Failure 400 {object} utils.APIResponse "Invalid date"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/admin/audit-logs [get]
func (h *AuditLogHandler) ListAuditLogs(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	from, err := parseDateParam(c, "start_date", false)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	to, err := parseDateParam(c, "end_date", true)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pg := utils.ParsePaginationWithLimits(c, constants.DefaultAuditPageSize, constants.MaxPageSize)
	result, err := h.service.AuditLogs(c.Request.Context(), p, auditusecases.ListAuditLogsQuery{
		Action:   strings.TrimSpace(c.Query("action")),
		UserID:   strings.TrimSpace(c.Query("user_id")),
		From:     from,
		To:       to,
		Page:     pg.Page,
		PageSize: pg.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

func parseDateParam(c *gin.Context, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := biztime.ParseFlexible(raw)
	if err != nil {
		return nil, errors.NewValidationError("invalid "+key, err.Error())
	}
	if endOfDay && len(raw) == len(time.DateOnly) {
		t = biztime.EndOfDayUTC(t)
	}
	return &t, nil
}
