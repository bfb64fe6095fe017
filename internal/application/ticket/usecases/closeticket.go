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

type CloseTicketCommand struct {
	Principal       common.Principal
	TicketID        uint
	ResolutionNotes string
	Description     string
	ActualHours     *float64
}

type CloseTicketUseCase struct {
	deps Deps
}

func NewCloseTicketUseCase(deps Deps) *CloseTicketUseCase {
	return &CloseTicketUseCase{deps: deps.withDefaults()}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*dto.TicketResponse, error) {
	log := uc.deps.Logger
	log.Infow("executing close ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)

	if err := requirePermission(cmd.Principal, permission.TicketClose); err != nil {
		return nil, err
	}
	t, err := uc.deps.loadVisible(ctx, cmd.Principal, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	previous := t.Status()
	err = t.Close(ticket.CloseParams{
		By:              cmd.Principal.Party(),
		ResolutionNotes: uc.deps.Sanitizer.StripTags(cmd.ResolutionNotes),
		Description:     uc.deps.Sanitizer.StripTags(cmd.Description),
		ActualHours:     cmd.ActualHours,
	})
	if err != nil {
		log.Warnw("ticket cannot be closed", "ticket_id", t.ID(), "status", previous, "error", err)
		return nil, ruleError(err)
	}

	update, err := ticket.NewUpdate(t.ID(), cmd.Principal.Party(), vo.UpdateResolution, t.ResolutionNotes())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	newValue := map[string]any{"status": t.Status().String()}
	if h := t.ActualHours(); h != nil {
		newValue["actual_hours"] = *h
	}
	update.WithValues(map[string]any{"status": previous.String()}, newValue)

	err = uc.deps.commit(ctx, cmd.Principal, change{
		ticket:  t,
		update:  update,
		action:  audit.ActionTicketClosed,
		details: map[string]any{"ticket_number": t.Number(), "previous_status": previous.String(), "actual_hours": t.ActualHours()},
		event:   ticket.EventClosed,
	})
	if err != nil {
		return nil, uc.deps.storeError(err, "close ticket", t.ID())
	}

	requester := t.Requester()
	uc.deps.Notifier.Notify(ctx, notificationdto.Recipient{UserID: requester.ID, Email: requester.Email}, notificationdto.Message{
		Type:    nvo.TypeTicketClosed,
		Title:   "Ticket closed",
		Body:    fmt.Sprintf("Your ticket %s was closed.\n\n%s", t.Number(), t.ResolutionNotes()),
		Payload: map[string]any{"ticket_id": t.ID(), "ticket_number": t.Number()},
	})

	log.Infow("ticket closed successfully", "ticket_id", t.ID())
	return dto.ToTicketResponse(t), nil
}
