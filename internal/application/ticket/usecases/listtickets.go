package usecases

import (
	"context"
	"strings"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

var sortableColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"priority":      true,
	"status":        true,
	"ticket_number": true,
}

type ListTicketsQuery struct {
	Principal common.Principal
	dto.ListTicketsRequest
}

type ListTicketsUseCase struct {
	deps Deps
}

func NewListTicketsUseCase(deps Deps) *ListTicketsUseCase {
	return &ListTicketsUseCase{deps: deps.withDefaults()}
}

// Execute lists tickets visible to the principal. Without read_all the
// result is always restricted to the principal's own tickets.
func (uc *ListTicketsUseCase) Execute(ctx context.Context, q ListTicketsQuery) (*common.ListResult[*dto.TicketResponse], error) {
	if err := requirePermission(q.Principal, permission.TicketRead); err != nil {
		return nil, err
	}
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	tickets, total, err := uc.deps.Tickets.List(ctx, filter)
	if err != nil {
		uc.deps.Logger.Errorw("failed to list tickets", "user_id", q.Principal.UserID, "error", err)
		return nil, errors.NewInternalError("failed to list tickets")
	}

	return &common.ListResult[*dto.TicketResponse]{
		Items:    dto.ToTicketResponseList(tickets),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func buildFilter(q ListTicketsQuery) (ticket.Filter, error) {
	page := common.NormalizePage(q.Page, q.PageSize, constants.DefaultPageSize)
	filter := ticket.Filter{
		Scope:     q.Principal.Scope(),
		Search:    strings.TrimSpace(q.Search),
		Page:      page.Page,
		PageSize:  page.PageSize,
		SortBy:    "created_at",
		SortOrder: "DESC",
	}

	if q.Status != "" {
		s, err := vo.NewTicketStatus(q.Status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Status = &s
	}
	if q.Priority != "" {
		p, err := vo.NewPriority(q.Priority)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Priority = &p
	}
	if q.Area != "" {
		a, err := vo.NewArea(q.Area)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Area = &a
	}
	if q.Board != "" {
		b, err := vo.NewBoard(q.Board)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Board = &b
	}
	if q.AssigneeID != "" {
		filter.AssigneeID = &q.AssigneeID
	}
	if q.Requester != "" {
		filter.RequesterID = &q.Requester
	}

	if q.SortBy != "" {
		column := strings.ToLower(q.SortBy)
		if !sortableColumns[column] {
			return filter, errors.NewValidationError("invalid sort_by: " + q.SortBy)
		}
		filter.SortBy = column
	}
	switch strings.ToUpper(q.SortOrder) {
	case "":
	case "ASC", "DESC":
		filter.SortOrder = strings.ToUpper(q.SortOrder)
	default:
		return filter, errors.NewValidationError("sort_order must be ASC or DESC")
	}
	return filter, nil
}
