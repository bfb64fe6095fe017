package usecases

import (
	"context"
	"fmt"

	"github.com/csc-helpdesk/csc/internal/application/common"
	notificationdto "github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	nvo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type ChangeStatusCommand struct {
	Principal common.Principal
	TicketID  uint
	Status    string
}

// ChangeStatusUseCase moves a ticket between working states. Closing and
// cancelling go through their own use cases.
type ChangeStatusUseCase struct {
	deps Deps
}

func NewChangeStatusUseCase(deps Deps) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{deps: deps.withDefaults()}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketResponse, error) {
	uc.deps.Logger.Infow("executing change status use case", "ticket_id", cmd.TicketID, "status", cmd.Status)

	if err := requirePermission(cmd.Principal, permission.TicketUpdate); err != nil {
		return nil, err
	}
	target, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	t, err := uc.deps.loadVisible(ctx, cmd.Principal, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	previous := t.Status()
	if err := t.ChangeStatus(target); err != nil {
		return nil, ruleError(err)
	}

	update, err := ticket.NewUpdate(t.ID(), cmd.Principal.Party(), vo.UpdateStatusChange,
		fmt.Sprintf("status changed from %s to %s", previous, target))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	update.WithValues(map[string]any{"status": previous.String()}, map[string]any{"status": target.String()})

	err = uc.deps.commit(ctx, cmd.Principal, change{
		ticket:  t,
		update:  update,
		action:  audit.ActionTicketStatusChanged,
		details: map[string]any{"ticket_number": t.Number(), "from": previous.String(), "to": target.String()},
		event:   ticket.EventStatusChanged,
	})
	if err != nil {
		return nil, uc.deps.storeError(err, "change ticket status", t.ID())
	}

	requester := t.Requester()
	if requester.ID != cmd.Principal.UserID {
		uc.deps.Notifier.Notify(ctx, notificationdto.Recipient{UserID: requester.ID, Email: requester.Email}, notificationdto.Message{
			Type:    nvo.TypeTicketUpdated,
			Title:   "Ticket updated",
			Body:    fmt.Sprintf("Your ticket %s is now %s.", t.Number(), target),
			Payload: map[string]any{"ticket_id": t.ID(), "ticket_number": t.Number(), "status": target.String()},
		})
	}

	return dto.ToTicketResponse(t), nil
}
