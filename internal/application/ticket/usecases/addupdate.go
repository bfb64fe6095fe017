package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type AddUpdateCommand struct {
	Principal  common.Principal
	TicketID   uint
	Message    string
	IsInternal bool
}

// AddUpdateUseCase appends a comment to a ticket without changing its status.
type AddUpdateUseCase struct {
	deps Deps
}

func NewAddUpdateUseCase(deps Deps) *AddUpdateUseCase {
	return &AddUpdateUseCase{deps: deps.withDefaults()}
}

func (uc *AddUpdateUseCase) Execute(ctx context.Context, cmd AddUpdateCommand) (*dto.UpdateResponse, error) {
	p := cmd.Principal
	uc.deps.Logger.Infow("executing add ticket update use case", "ticket_id", cmd.TicketID, "user_id", p.UserID)

	t, err := uc.deps.loadVisible(ctx, p, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	isStaff := p.Can(permission.TicketUpdate)
	if t.Requester().ID != p.UserID && !isStaff {
		return nil, errors.NewForbiddenError("only the requester or support staff may comment on this ticket")
	}
	if cmd.IsInternal && !isStaff {
		return nil, errors.NewForbiddenError("only support staff may post internal updates")
	}

	update, err := ticket.NewComment(t.ID(), p.Party(), uc.deps.Sanitizer.StripTags(cmd.Message), cmd.IsInternal)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := t.Touch(); err != nil {
		return nil, ruleError(err)
	}

	err = uc.deps.commit(ctx, p, change{
		ticket:  t,
		update:  update,
		action:  audit.ActionTicketCommented,
		details: map[string]any{"ticket_number": t.Number(), "is_internal": cmd.IsInternal},
		event:   ticket.EventCommented,
	})
	if err != nil {
		return nil, uc.deps.storeError(err, "add ticket update", t.ID())
	}

	return dto.ToUpdateResponse(update), nil
}
