package usecases

import (
	"context"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type ListAuditLogsQuery struct {
	Action   string
	UserID   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type AuditLogDTO struct {
	ID           uint           `json:"id"`
	UserID       *string        `json:"user_id"`
	UserEmail    *string        `json:"user_email"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ListAuditLogsUseCase struct {
	repo   audit.Repository
	logger logger.Interface
}

func NewListAuditLogsUseCase(repo audit.Repository, logger logger.Interface) *ListAuditLogsUseCase {
	return &ListAuditLogsUseCase{repo: repo, logger: logger}
}

func (uc *ListAuditLogsUseCase) Execute(ctx context.Context, q ListAuditLogsQuery) (*common.ListResult[AuditLogDTO], error) {
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, errors.NewValidationError("end_date must not be before start_date")
	}
	page := common.NormalizePage(q.Page, q.PageSize, constants.DefaultAuditPageSize)

	entries, total, err := uc.repo.List(ctx, audit.ListFilter{
		Action:   q.Action,
		UserID:   q.UserID,
		From:     q.From,
		To:       q.To,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list audit logs", "error", err)
		return nil, errors.NewInternalError("failed to list audit logs")
	}

	items := make([]AuditLogDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, toAuditLogDTO(e))
	}
	return &common.ListResult[AuditLogDTO]{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

func toAuditLogDTO(e *audit.Entry) AuditLogDTO {
	dto := AuditLogDTO{
		ID:           e.ID(),
		Action:       e.Action().String(),
		ResourceType: e.ResourceType(),
		ResourceID:   e.ResourceID(),
		Details:      e.Details(),
		IPAddress:    e.Meta().IP,
		UserAgent:    e.Meta().UserAgent,
		CreatedAt:    e.CreatedAt(),
	}
	if actor := e.Actor(); actor.UserID != "" {
		id := actor.UserID
		dto.UserID = &id
	}
	if actor := e.Actor(); actor.Email != "" {
		email := actor.Email
		dto.UserEmail = &email
	}
	return dto
}
