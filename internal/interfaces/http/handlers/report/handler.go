// Package report provides HTTP handlers for ticket reports and exports.
package report

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/application/report/usecases"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

type Handler struct {
	service reportService
	logger  logger.Interface
}

func NewHandler(service reportService, logger logger.Interface) *Handler {
	return &Handler{service: service, logger: logger}
}

// GetSummary godoc
// @Summary Ticket summary report
// @Description Totals, averages and distributions for tickets created in the range.
// @Security Bearer
// @Tags reports
// @Produce json
// @Param start_date query string false "From (YYYY-MM-DD or RFC3339)"
// @Param end_date query string false "To (YYYY-MM-DD or RFC3339)"
// @Param area query string false "Area"
// @Param status query string false "Status"
// @Success 200 {object} utils.APIResponse{data=dto.SummaryResponse} "Summary"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/reports/tickets/summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.ReportFilterRequest
	if !common.BindQuery(c, &req) {
		return
	}

	result, err := h.service.Summary(c.Request.Context(), p, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetUserActivity godoc
// @Summary User activity report
// @Description Per-user ticket counts and average resolution time.
// @Security Bearer
// @Tags reports
// @Produce json
// @Param start_date query string false "From (YYYY-MM-DD or RFC3339)"
// @Param end_date query string false "To (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} utils.APIResponse{data=[]dto.UserActivityResponse} "Activity"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/reports/users/activity [get]
func (h *Handler) GetUserActivity(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.ReportFilterRequest
	if !common.BindQuery(c, &req) {
		return
	}

	result, err := h.service.UserActivity(c.Request.Context(), p, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ExportCSV godoc
// @Summary Export tickets as CSV
// @Security Bearer
// @Tags reports
// @Produce text/csv
// @Param start_date query string false "From (YYYY-MM-DD or RFC3339)"
// @Param end_date query string false "To (YYYY-MM-DD or RFC3339)"
// @Param area query string false "Area"
// @Param status query string false "Status"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/reports/tickets/export/csv [get]
func (h *Handler) ExportCSV(c *gin.Context) {
	h.export(c, dto.FormatCSV)
}

// ExportExcel godoc
// @Summary Export tickets as Excel
// @Security Bearer
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string false "From (YYYY-MM-DD or RFC3339)"
// @Param end_date query string false "To (YYYY-MM-DD or RFC3339)"
// @Param area query string false "Area"
// @Param status query string false "Status"
// @Success 200 {file} file "Excel workbook"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/reports/tickets/export/excel [get]
func (h *Handler) ExportExcel(c *gin.Context) {
	h.export(c, dto.FormatExcel)
}

func (h *Handler) export(c *gin.Context, format dto.ExportFormat) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.ReportFilterRequest
	if !common.BindQuery(c, &req) {
		return
	}

	// Once deliver starts writing, headers are sent and errors can only be logged.
	streaming := false
	err := h.service.Export(c.Request.Context(), usecases.ExportTicketsCommand{
		Principal: p,
		Filter:    req,
		Format:    format,
	}, func(f *dto.ExportFile) error {
		streaming = true
		c.DataFromReader(http.StatusOK, f.Size, f.ContentType, f.Body, map[string]string{
			"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": f.Filename}),
			"X-Export-Rows":       strconv.Itoa(f.Rows),
			"Cache-Control":       "no-store",
		})
		return nil
	})
	if err == nil {
		return
	}
	if streaming {
		h.logger.Errorw("ticket export failed after streaming started", "format", format, "error", err)
		return
	}
	utils.ErrorResponseWithError(c, err)
}
