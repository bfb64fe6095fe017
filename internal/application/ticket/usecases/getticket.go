package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type GetTicketQuery struct {
	Principal common.Principal
	TicketID  uint
}

type GetTicketUseCase struct {
	deps Deps
}

func NewGetTicketUseCase(deps Deps) *GetTicketUseCase {
	return &GetTicketUseCase{deps: deps.withDefaults()}
}

// Execute returns the ticket with its trail. Internal entries are hidden
// from principals who cannot update tickets.
func (uc *GetTicketUseCase) Execute(ctx context.Context, q GetTicketQuery) (*dto.TicketDetailResponse, error) {
	if err := requirePermission(q.Principal, permission.TicketRead); err != nil {
		return nil, err
	}
	t, err := uc.deps.loadVisible(ctx, q.Principal, q.TicketID)
	if err != nil {
		return nil, err
	}

	updates, err := uc.deps.Updates.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.deps.Logger.Errorw("failed to load ticket updates", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load ticket")
	}

	visible := ticket.VisibleTo(updates, q.Principal.Can(permission.TicketUpdate))
	return &dto.TicketDetailResponse{
		Ticket:  dto.ToTicketResponse(t),
		Updates: dto.ToUpdateResponseList(visible),
	}, nil
}
