package usecases

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const auditResourceTicket = "ticket"

// Deps is what every lifecycle use case shares.
type Deps struct {
	Tx        common.Transactor
	Tickets   ticket.Repository
	Updates   ticket.UpdateRepository
	Audit     AuditRecorder
	Notifier  Notifier
	Publisher EventPublisher
	Sanitizer TextSanitizer
	Logger    logger.Interface
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = noopNotifier{}
	}
	if d.Publisher == nil {
		d.Publisher = noopPublisher{}
	}
	if d.Sanitizer == nil {
		d.Sanitizer = plainText{}
	}
	return d
}

// change is one lifecycle mutation: the ticket row, its trail entry and the
// audit entry are written together or not at all.
type change struct {
	ticket  *ticket.Ticket
	update  *ticket.Update
	action  audit.Action
	details map[string]any
	event   ticket.EventType
}

// commit persists c in one transaction, then publishes its event.
func (d Deps) commit(ctx context.Context, actor common.Principal, c change) error {
	err := d.Tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := d.Tickets.Update(txCtx, c.ticket); err != nil {
			return err
		}
		if err := d.Updates.Create(txCtx, c.update); err != nil {
			return err
		}
		return d.Audit.Record(txCtx, actor.AuditActor(), c.action, auditResourceTicket, ticketResourceID(c.ticket), c.details)
	})
	if err != nil {
		return err
	}
	d.publish(ctx, c.event, c.ticket, actor.UserID)
	return nil
}

func (d Deps) publish(ctx context.Context, eventType ticket.EventType, t *ticket.Ticket, actorID string) {
	if err := d.Publisher.Publish(ctx, ticket.NewEvent(eventType, t, actorID, biztime.NowUTC())); err != nil {
		d.Logger.Warnw("failed to publish ticket event", "event", eventType, "ticket_id", t.ID(), "error", err)
	}
}

// loadVisible fetches a ticket the principal may read. Tickets hidden from
// the principal are reported as not found.
func (d Deps) loadVisible(ctx context.Context, p common.Principal, id uint) (*ticket.Ticket, error) {
	t, err := d.Tickets.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, ticket.ErrTicketNotFound) {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		d.Logger.Errorw("failed to load ticket", "ticket_id", id, "error", err)
		return nil, errors.NewInternalError("failed to load ticket")
	}
	if !t.CanBeViewedBy(p.UserID, p.SeesAllTickets()) {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

func requirePermission(p common.Principal, perm permission.Permission) error {
	if !p.Can(perm) {
		return errors.NewForbiddenError("insufficient permissions", string(perm))
	}
	return nil
}

func ticketResourceID(t *ticket.Ticket) string {
	return strconv.FormatUint(uint64(t.ID()), 10)
}

// ruleError maps an error from an aggregate method. Anything that is not
// a lifecycle rule violation is bad input.
func ruleError(err error) error {
	if ticket.IsStateConflict(err) {
		return errors.NewConflictError(err.Error())
	}
	return errors.NewValidationError(err.Error())
}

// storeError maps an error from commit. Lifecycle conflicts keep their
// message; anything else is logged and hidden.
func (d Deps) storeError(err error, op string, ticketID uint) error {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr
	}
	if stderrors.Is(err, ticket.ErrConcurrentModification) {
		return errors.NewConflictError("ticket was modified by another request, reload and try again")
	}
	if stderrors.Is(err, ticket.ErrTicketNotFound) {
		return errors.NewNotFoundError("ticket not found")
	}
	d.Logger.Errorw("failed to "+op, "ticket_id", ticketID, "error", err)
	return errors.NewInternalError("failed to " + op)
}
