package usecases

import (
	"context"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

const statsRecentWindow = 7 * 24 * time.Hour

type GetTicketStatsUseCase struct {
	deps Deps
	now  func() time.Time
}

func NewGetTicketStatsUseCase(deps Deps) *GetTicketStatsUseCase {
	return &GetTicketStatsUseCase{deps: deps.withDefaults(), now: biztime.NowUTC}
}

// Execute counts the tickets the principal can see.
func (uc *GetTicketStatsUseCase) Execute(ctx context.Context, p common.Principal) (*dto.StatsResponse, error) {
	if err := requirePermission(p, permission.TicketRead); err != nil {
		return nil, err
	}

	stats, err := uc.deps.Tickets.Stats(ctx, p.Scope(), uc.now().Add(-statsRecentWindow))
	if err != nil {
		uc.deps.Logger.Errorw("failed to compute ticket stats", "user_id", p.UserID, "error", err)
		return nil, errors.NewInternalError("failed to compute ticket stats")
	}
	return dto.ToStatsResponse(stats), nil
}
