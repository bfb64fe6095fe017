package usecases

import (
	"context"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/admin/dto"
	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type GetSystemStatsUseCase struct {
	users   user.Repository
	tickets ticket.Repository
	reports ticket.ReportRepository
	logger  logger.Interface
	now     func() time.Time
}

func NewGetSystemStatsUseCase(
	users user.Repository,
	tickets ticket.Repository,
	reports ticket.ReportRepository,
	logger logger.Interface,
) *GetSystemStatsUseCase {
	return &GetSystemStatsUseCase{users: users, tickets: tickets, reports: reports, logger: logger, now: biztime.NowUTC}
}

func (uc *GetSystemStatsUseCase) Execute(ctx context.Context, p common.Principal) (*dto.SystemStatsResponse, error) {
	if err := requirePermission(p, permission.UserManage); err != nil {
		return nil, err
	}

	us, err := uc.users.Stats(ctx)
	if err != nil {
		uc.logger.Errorw("failed to compute user stats", "error", err)
		return nil, errors.NewInternalError("failed to compute system stats")
	}
	summary, err := uc.reports.Summary(ctx, ticket.ReportFilter{})
	if err != nil {
		uc.logger.Errorw("failed to compute ticket summary", "error", err)
		return nil, errors.NewInternalError("failed to compute system stats")
	}
	recent, err := uc.tickets.Stats(ctx, ticket.Scope{All: true}, uc.now().Add(-7*24*time.Hour))
	if err != nil {
		uc.logger.Errorw("failed to compute ticket stats", "error", err)
		return nil, errors.NewInternalError("failed to compute system stats")
	}

	byRole := make(map[string]int64, len(permission.Roles()))
	for _, r := range permission.Roles() {
		byRole[r.String()] = us.ByRole[r.String()]
	}
	return &dto.SystemStatsResponse{
		Users: dto.UserStats{
			Total:        us.Total,
			Active:       us.Active,
			ByRole:       byRole,
			LoggedInWeek: us.LoggedInWeek,
		},
		Tickets: dto.TicketStats{
			Total:          summary.Total,
			Open:           summary.Open,
			InProgress:     summary.InProgress,
			Closed:         summary.Closed,
			Cancelled:      summary.Cancelled,
			AvgActualHours: summary.AvgActualHours,
			LastWeek:       recent.LastWeek,
		},
	}, nil
}
