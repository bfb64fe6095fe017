package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type CancelTicketCommand struct {
	Principal common.Principal
	TicketID  uint
	Reason    string
}

// CancelTicketUseCase withdraws an open ticket. Requesters may cancel
// their own tickets; staff may cancel any.
type CancelTicketUseCase struct {
	deps Deps
}

func NewCancelTicketUseCase(deps Deps) *CancelTicketUseCase {
	return &CancelTicketUseCase{deps: deps.withDefaults()}
}

func (uc *CancelTicketUseCase) Execute(ctx context.Context, cmd CancelTicketCommand) (*dto.TicketResponse, error) {
	p := cmd.Principal
	uc.deps.Logger.Infow("executing cancel ticket use case", "ticket_id", cmd.TicketID, "user_id", p.UserID)

	t, err := uc.deps.loadVisible(ctx, p, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if t.Requester().ID != p.UserID && !p.Can(permission.TicketUpdate) {
		return nil, errors.NewForbiddenError("only the requester or support staff may cancel this ticket")
	}

	previous := t.Status()
	if err := t.Cancel(); err != nil {
		return nil, ruleError(err)
	}

	message := "ticket cancelled"
	reason := uc.deps.Sanitizer.StripTags(cmd.Reason)
	if reason != "" {
		message += ": " + reason
	}
	update, err := ticket.NewUpdate(t.ID(), p.Party(), vo.UpdateStatusChange, message)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	update.WithValues(map[string]any{"status": previous.String()}, map[string]any{"status": t.Status().String()})

	err = uc.deps.commit(ctx, p, change{
		ticket:  t,
		update:  update,
		action:  audit.ActionTicketCancelled,
		details: map[string]any{"ticket_number": t.Number(), "reason": reason},
		event:   ticket.EventCancelled,
	})
	if err != nil {
		return nil, uc.deps.storeError(err, "cancel ticket", t.ID())
	}

	return dto.ToTicketResponse(t), nil
}
