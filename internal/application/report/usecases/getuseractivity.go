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

// GetUserActivityUseCase reports per-user ticket counts. Only the date
// range of the filter applies.
type GetUserActivityUseCase struct {
	repo   ticket.ReportRepository
	logger logger.Interface
}

func NewGetUserActivityUseCase(repo ticket.ReportRepository, logger logger.Interface) *GetUserActivityUseCase {
	return &GetUserActivityUseCase{repo: repo, logger: logger}
}

func (uc *GetUserActivityUseCase) Execute(ctx context.Context, p common.Principal, req dto.ReportFilterRequest) ([]*dto.UserActivityResponse, error) {
	if err := requirePermission(p, permission.ReportsView); err != nil {
		return nil, err
	}
	filter, err := parseFilter(dto.ReportFilterRequest{StartDate: req.StartDate, EndDate: req.EndDate})
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.UserActivity(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to build user activity report", "user_id", p.UserID, "error", err)
		return nil, errors.NewInternalError("failed to build user activity report")
	}
	return dto.ToUserActivityResponseList(rows), nil
}
