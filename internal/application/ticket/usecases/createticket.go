package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

// maxNumberAttempts bounds retries after a ticket number collision.
const maxNumberAttempts = 3

type CreateTicketCommand struct {
	Principal   common.Principal
	Title       string
	Description string
	Area        string
	Board       string
	Priority    string
	Category    string
	Subcategory string
	DueDate     *time.Time
}

type CreateTicketUseCase struct {
	deps       Deps
	numbers    ticket.NumberGenerator
	categories category.Repository
}

func NewCreateTicketUseCase(deps Deps, numbers ticket.NumberGenerator, categories category.Repository) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		deps:       deps.withDefaults(),
		numbers:    numbers,
		categories: categories,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketResponse, error) {
	log := uc.deps.Logger
	log.Infow("executing create ticket use case", "user_id", cmd.Principal.UserID, "area", cmd.Area)

	if err := requirePermission(cmd.Principal, permission.TicketCreate); err != nil {
		return nil, err
	}

	params, err := uc.buildParams(ctx, cmd)
	if err != nil {
		return nil, err
	}
	// Validate once up front so bad input never consumes a ticket number.
	if _, err := ticket.NewTicket(params); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var created *ticket.Ticket
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		created, err = uc.create(ctx, cmd.Principal, params)
		if err == nil {
			break
		}
		if !errors.IsDuplicateError(err) {
			return nil, uc.deps.storeError(err, "create ticket", 0)
		}
		log.Warnw("ticket number collision, retrying", "attempt", attempt, "error", err)
	}
	if err != nil {
		log.Errorw("failed to allocate a unique ticket number", "attempts", maxNumberAttempts, "error", err)
		return nil, errors.NewConflictError("could not allocate a ticket number, please retry")
	}

	uc.deps.publish(ctx, ticket.EventCreated, created, cmd.Principal.UserID)
	log.Infow("ticket created successfully", "ticket_id", created.ID(), "number", created.Number())
	return dto.ToTicketResponse(created), nil
}

// create allocates a number and writes the ticket with its CREATED entry
// and audit row. The number is drawn before the transaction so a retry
// after a collision gets a fresh sequence.
func (uc *CreateTicketUseCase) create(ctx context.Context, p common.Principal, params ticket.NewTicketParams) (*ticket.Ticket, error) {
	number, err := uc.numbers.Generate(ctx)
	if err != nil {
		return nil, err
	}
	t, err := ticket.NewTicket(params)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := t.SetNumber(number); err != nil {
		return nil, err
	}

	err = uc.deps.Tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.deps.Tickets.Create(txCtx, t); err != nil {
			return err
		}
		update, err := ticket.NewUpdate(t.ID(), p.Party(), vo.UpdateCreated, "ticket created")
		if err != nil {
			return err
		}
		update.WithValues(nil, map[string]any{"status": t.Status().String()})
		if err := uc.deps.Updates.Create(txCtx, update); err != nil {
			return err
		}
		return uc.deps.Audit.Record(txCtx, p.AuditActor(), audit.ActionTicketCreated, auditResourceTicket, ticketResourceID(t), map[string]any{
			"ticket_number": t.Number(),
			"title":         t.Title(),
			"area":          t.Area().String(),
			"priority":      t.Priority().String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *CreateTicketUseCase) buildParams(ctx context.Context, cmd CreateTicketCommand) (ticket.NewTicketParams, error) {
	area, err := vo.NewArea(cmd.Area)
	if err != nil {
		return ticket.NewTicketParams{}, errors.NewValidationError(err.Error())
	}
	board, err := vo.NewBoard(cmd.Board)
	if err != nil {
		return ticket.NewTicketParams{}, errors.NewValidationError(err.Error())
	}
	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return ticket.NewTicketParams{}, errors.NewValidationError(err.Error())
	}

	clean := uc.deps.Sanitizer.StripTags
	params := ticket.NewTicketParams{
		Title:       clean(cmd.Title),
		Description: clean(cmd.Description),
		Area:        area,
		Board:       board,
		Priority:    priority,
		Category:    clean(cmd.Category),
		Subcategory: clean(cmd.Subcategory),
		DueDate:     cmd.DueDate,
		Requester:   cmd.Principal.Party(),
	}
	if params.DueDate == nil && params.Category != "" {
		params.DueDate = uc.slaDueDate(ctx, area, params.Category)
	}
	return params, nil
}

// slaDueDate derives the due date from a known active category. Unknown
// categories are free text and get no deadline.
func (uc *CreateTicketUseCase) slaDueDate(ctx context.Context, area vo.Area, name string) *time.Time {
	if uc.categories == nil {
		return nil
	}
	c, err := uc.categories.FindByName(ctx, area, name)
	if err != nil {
		if !stderrors.Is(err, category.ErrCategoryNotFound) {
			uc.deps.Logger.Warnw("failed to look up category SLA", "area", area, "category", name, "error", err)
		}
		return nil
	}
	if !c.IsActive() {
		return nil
	}
	due := c.DueDateFrom(biztime.NowUTC())
	return &due
}
