package usecases

import (
	"context"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type PatchTicketCommand struct {
	Principal    common.Principal
	TicketID     uint
	Title        *string
	Description  *string
	Priority     *string
	Area         *string
	Board        *string
	Category     *string
	Subcategory  *string
	DueDate      *time.Time
	ClearDueDate bool
}

// PatchTicketUseCase changes ticket metadata. Only the supplied fields
// change, but the ticket is always touched.
type PatchTicketUseCase struct {
	deps Deps
}

func NewPatchTicketUseCase(deps Deps) *PatchTicketUseCase {
	return &PatchTicketUseCase{deps: deps.withDefaults()}
}

func (uc *PatchTicketUseCase) Execute(ctx context.Context, cmd PatchTicketCommand) (*dto.TicketResponse, error) {
	uc.deps.Logger.Infow("executing patch ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)

	if err := requirePermission(cmd.Principal, permission.TicketUpdate); err != nil {
		return nil, err
	}
	patch, err := uc.toPatch(cmd)
	if err != nil {
		return nil, err
	}
	t, err := uc.deps.loadVisible(ctx, cmd.Principal, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	changes, err := t.ApplyPatch(patch)
	if err != nil {
		return nil, ruleError(err)
	}

	kind := vo.UpdateComment
	message := "ticket details updated"
	oldValue := make(map[string]any, len(changes))
	newValue := make(map[string]any, len(changes))
	fields := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.Field == "priority" {
			kind = vo.UpdatePriorityChange
			message = "priority changed from " + c.Old.(string) + " to " + c.New.(string)
		}
		oldValue[c.Field] = c.Old
		newValue[c.Field] = c.New
		fields = append(fields, c.Field)
	}

	update, err := ticket.NewUpdate(t.ID(), cmd.Principal.Party(), kind, message)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	update.WithValues(oldValue, newValue)

	err = uc.deps.commit(ctx, cmd.Principal, change{
		ticket:  t,
		update:  update,
		action:  audit.ActionTicketUpdated,
		details: map[string]any{"ticket_number": t.Number(), "changed_fields": fields, "old": oldValue, "new": newValue},
		event:   ticket.EventUpdated,
	})
	if err != nil {
		return nil, uc.deps.storeError(err, "update ticket", t.ID())
	}

	uc.deps.Logger.Infow("ticket updated successfully", "ticket_id", t.ID(), "changed_fields", fields)
	return dto.ToTicketResponse(t), nil
}

func (uc *PatchTicketUseCase) toPatch(cmd PatchTicketCommand) (ticket.Patch, error) {
	clean := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := uc.deps.Sanitizer.StripTags(*s)
		return &v
	}
	patch := ticket.Patch{
		Title:        clean(cmd.Title),
		Description:  clean(cmd.Description),
		Category:     clean(cmd.Category),
		Subcategory:  clean(cmd.Subcategory),
		DueDate:      cmd.DueDate,
		ClearDueDate: cmd.ClearDueDate,
	}
	if cmd.Priority != nil {
		p, err := vo.NewPriority(*cmd.Priority)
		if err != nil || *cmd.Priority == "" {
			return ticket.Patch{}, errors.NewValidationError("invalid priority")
		}
		patch.Priority = &p
	}
	if cmd.Area != nil {
		a, err := vo.NewArea(*cmd.Area)
		if err != nil {
			return ticket.Patch{}, errors.NewValidationError(err.Error())
		}
		patch.Area = &a
	}
	if cmd.Board != nil {
		b, err := vo.NewBoard(*cmd.Board)
		if err != nil {
			return ticket.Patch{}, errors.NewValidationError(err.Error())
		}
		patch.Board = &b
	}
	return patch, nil
}
