package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type GetSummaryUseCase struct {
	repo   ticket.ReportRepository
	logger logger.Interface
}

func NewGetSummaryUseCase(repo ticket.ReportRepository, logger logger.Interface) *GetSummaryUseCase {
	return &GetSummaryUseCase{repo: repo, logger: logger}
}

func (uc *GetSummaryUseCase) Execute(ctx context.Context, p common.Principal, req dto.ReportFilterRequest) (*dto.SummaryResponse, error) {
	if err := requirePermission(p, permission.ReportsView); err != nil {
		return nil, err
	}
	filter, err := parseFilter(req)
	if err != nil {
		return nil, err
	}

	summary, err := uc.repo.Summary(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to build ticket summary", "user_id", p.UserID, "error", err)
		return nil, errors.NewInternalError("failed to build ticket summary")
	}
	return dto.ToSummaryResponse(summary), nil
}
