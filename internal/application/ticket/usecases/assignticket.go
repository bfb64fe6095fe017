package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/csc-helpdesk/csc/internal/application/common"
	notificationdto "github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	nvo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type AssignTicketCommand struct {
	Principal common.Principal
	TicketID  uint
	// AssigneeEmail hands the ticket to another active user; empty claims it
	// for the principal.
	AssigneeEmail string
}

type AssignTicketUseCase struct {
	deps  Deps
	users UserLookup
}

func NewAssignTicketUseCase(deps Deps, users UserLookup) *AssignTicketUseCase {
	return &AssignTicketUseCase{deps: deps.withDefaults(), users: users}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketResponse, error) {
	log := uc.deps.Logger
	log.Infow("executing assign ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)

	if err := requirePermission(cmd.Principal, permission.TicketAssign); err != nil {
		return nil, err
	}

	t, err := uc.deps.loadVisible(ctx, cmd.Principal, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	assignee, err := uc.resolveAssignee(ctx, cmd)
	if err != nil {
		return nil, err
	}

	previous := map[string]any{"assignee_id": nil, "assignee_email": nil}
	if a := t.Assignee(); a != nil {
		previous = map[string]any{"assignee_id": a.ID, "assignee_email": a.Email}
	}

	if err := t.Assign(assignee); err != nil {
		log.Warnw("ticket cannot be assigned", "ticket_id", t.ID(), "status", t.Status(), "error", err)
		return nil, ruleError(err)
	}

	update, err := ticket.NewUpdate(t.ID(), cmd.Principal.Party(), vo.UpdateAssignment, fmt.Sprintf("ticket assigned to %s", displayName(assignee)))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	current := map[string]any{"assignee_id": assignee.ID, "assignee_email": assignee.Email}
	update.WithValues(previous, current)

	err = uc.deps.commit(ctx, cmd.Principal, change{
		ticket:  t,
		update:  update,
		action:  audit.ActionTicketAssigned,
		details: map[string]any{"ticket_number": t.Number(), "assignee_email": assignee.Email, "previous_assignee": previous["assignee_email"]},
		event:   ticket.EventAssigned,
	})
	if err != nil {
		return nil, uc.deps.storeError(err, "assign ticket", t.ID())
	}

	requester := t.Requester()
	uc.deps.Notifier.Notify(ctx, notificationdto.Recipient{UserID: requester.ID, Email: requester.Email}, notificationdto.Message{
		Type:    nvo.TypeTicketAssigned,
		Title:   "Ticket assigned",
		Body:    fmt.Sprintf("Your ticket %s is now being handled by %s.", t.Number(), displayName(assignee)),
		Payload: map[string]any{"ticket_id": t.ID(), "ticket_number": t.Number(), "assignee_id": assignee.ID},
	})

	log.Infow("ticket assigned successfully", "ticket_id", t.ID(), "assignee_id", assignee.ID)
	return dto.ToTicketResponse(t), nil
}

func (uc *AssignTicketUseCase) resolveAssignee(ctx context.Context, cmd AssignTicketCommand) (ticket.Party, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.AssigneeEmail))
	if email == "" || email == strings.ToLower(cmd.Principal.Email) {
		return cmd.Principal.Party(), nil
	}

	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return ticket.Party{}, errors.NewValidationError("assignee not found")
		}
		uc.deps.Logger.Errorw("failed to look up assignee", "email", email, "error", err)
		return ticket.Party{}, errors.NewInternalError("failed to look up assignee")
	}
	if !u.IsActive() {
		return ticket.Party{}, errors.NewValidationError("assignee is not active")
	}
	return ticket.Party{ID: u.ID(), Name: u.Name(), Email: u.Email().String()}, nil
}

func displayName(p ticket.Party) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
