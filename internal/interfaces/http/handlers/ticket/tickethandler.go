package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/application/ticket/usecases"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

type TicketHandler struct {
	service ticketService
	logger  logger.Interface
}

func NewTicketHandler(service ticketService, logger logger.Interface) *TicketHandler {
	return &TicketHandler{
		service: service,
		logger:  logger,
	}
}

// CreateTicket godoc
// @Summary Create ticket
// @Description Open a new ticket on behalf of the caller. The ticket number is allocated by the server.
// @Security Bearer
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body dto.CreateTicketRequest true "Ticket data"
// @Success 201 {object} utils.APIResponse{data=dto.TicketResponse} "Ticket created successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 409 {object} utils.APIResponse "Ticket number conflict"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateTicketRequest
	if !common.BindJSON(c, &req) {
		h.logger.Debugw("invalid request body for create ticket", "user_id", p.UserID)
		return
	}

	result, err := h.service.Create(c.Request.Context(), usecases.CreateTicketCommand{
		Principal:   p,
		Title:       req.Title,
		Description: req.Description,
		Area:        req.Area,
		Board:       req.Board,
		Priority:    req.Priority,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		DueDate:     req.DueDate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// ListTickets godoc
// @Summary List tickets
// @Description List tickets visible to the caller. Without ticket:read_all only the caller's own tickets are returned.
// @Security Bearer
// @Tags tickets
// @Produce json
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param area query string false "Area filter"
// @Param board query string false "Board filter"
// @Param assignee query string false "Assignee user ID"
// @Param requester query string false "Requester user ID"
// @Param search query string false "Search in number, title and description"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sort_by query string false "created_at, updated_at, priority, status or ticket_number"
// @Param sort_order query string false "ASC or DESC"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse} "Tickets"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.ListTicketsRequest
	if !common.BindQuery(c, &req) {
		return
	}
	pg := utils.ParsePagination(c)
	req.Page, req.PageSize = pg.Page, pg.PageSize

	result, err := h.service.List(c.Request.Context(), usecases.ListTicketsQuery{
		Principal:          p,
		ListTicketsRequest: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetStats godoc
// @Summary Ticket statistics
// @Description Counts by status, priority and area plus tickets created in the last 7 days, scoped to what the caller may read.
// @Security Bearer
// @Tags tickets
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.StatsResponse} "Statistics"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/stats [get]
func (h *TicketHandler) GetStats(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.service.Stats(c.Request.Context(), p)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTicket godoc
// @Summary Get ticket
// @Description Ticket with its update trail. Internal updates are omitted for callers without ticket:update.
// @Security Bearer
// @Tags tickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=dto.TicketDetailResponse} "Ticket"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Get(c.Request.Context(), usecases.GetTicketQuery{Principal: p, TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// PatchTicket godoc
// @Summary Update ticket details
// @Description Change title, description, priority, area, board, category or due date of a non-terminal ticket.
// @Security Bearer
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.PatchTicketRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse} "Ticket updated successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Ticket is closed or was modified concurrently"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/{id} [patch]
func (h *TicketHandler) PatchTicket(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.PatchTicketRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Patch(c.Request.Context(), usecases.PatchTicketCommand{
		Principal:    p,
		TicketID:     ticketID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Area:         req.Area,
		Board:        req.Board,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", result)
}

// AssignTicket godoc
// @Summary Assign ticket
// @Description Claim an open ticket, or hand it to another active user via assignee_email. Moves the ticket to EM_ANALISE.
// @Security Bearer
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.AssignTicketRequest false "Optional assignee"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse} "Ticket assigned successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Only open tickets may be claimed"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/{id}/assign [post]
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AssignTicketRequest
	if c.Request.ContentLength != 0 && !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Assign(c.Request.Context(), usecases.AssignTicketCommand{
		Principal:     p,
		TicketID:      ticketID,
		AssigneeEmail: req.AssigneeEmail,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}

// CloseTicket godoc
// @Summary Close ticket
// @Description Close a non-terminal ticket with resolution notes. A closed ticket cannot be closed again.
// @Security Bearer
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.CloseTicketRequest true "Resolution"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse} "Ticket closed successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Ticket is already closed"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/{id}/close [post]
func (h *TicketHandler) CloseTicket(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CloseTicketRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Close(c.Request.Context(), usecases.CloseTicketCommand{
		Principal:       p,
		TicketID:        ticketID,
		ResolutionNotes: req.ResolutionNotes,
		Description:     req.Description,
		ActualHours:     req.ActualHours,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket closed successfully", result)
}

// AddUpdate godoc
// @Summary Comment on ticket
// @Description Append a comment to a non-terminal ticket. Internal comments are visible to staff only.
// @Security Bearer
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.AddUpdateRequest true "Comment"
// @Success 201 {object} utils.APIResponse{data=dto.UpdateResponse} "Comment added successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Ticket is closed"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/{id}/updates [post]
func (h *TicketHandler) AddUpdate(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AddUpdateRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AddUpdate(c.Request.Context(), usecases.AddUpdateCommand{
		Principal:  p,
		TicketID:   ticketID,
		Message:    req.Message,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Comment added successfully")
}

// ChangeStatus godoc
// @Summary Change ticket status
// @Description Move a ticket between working states (EM_ANALISE, AGUARDANDO, RESOLVIDO). Closing and cancelling have their own endpoints.
// @Security Bearer
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.ChangeStatusRequest true "Target status"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse} "Status changed successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Transition not allowed"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/{id}/status [post]
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.ChangeStatusRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), usecases.ChangeStatusCommand{
		Principal: p,
		TicketID:  ticketID,
		Status:    req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status changed successfully", result)
}

// CancelTicket godoc
// @Summary Cancel ticket
// @Description Withdraw an open ticket. Allowed for the requester and ticket:update holders.
// @Security Bearer
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.CancelTicketRequest false "Optional reason"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse} "Ticket cancelled successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Only open tickets may be cancelled"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/tickets/{id}/cancel [post]
func (h *TicketHandler) CancelTicket(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CancelTicketRequest
	if c.Request.ContentLength != 0 && !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), usecases.CancelTicketCommand{
		Principal: p,
		TicketID:  ticketID,
		Reason:    req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket cancelled successfully", result)
}

func parseTicketID(c *gin.Context) (uint, error) {
	return common.ParseUintParam(c, "id", "ticket")
}
