// Package ticket exposes the ticket lifecycle to the transport layer.
package ticket

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/application/ticket/usecases"
	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
)

type Service struct {
	createTicket *usecases.CreateTicketUseCase
	assignTicket *usecases.AssignTicketUseCase
	addUpdate    *usecases.AddUpdateUseCase
	closeTicket  *usecases.CloseTicketUseCase
	patchTicket  *usecases.PatchTicketUseCase
	changeStatus *usecases.ChangeStatusUseCase
	cancelTicket *usecases.CancelTicketUseCase
	getTicket    *usecases.GetTicketUseCase
	listTickets  *usecases.ListTicketsUseCase
	getStats     *usecases.GetTicketStatsUseCase
}

func NewService(
	deps usecases.Deps,
	numbers ticket.NumberGenerator,
	categories category.Repository,
	users usecases.UserLookup,
) *Service {
	return &Service{
		createTicket: usecases.NewCreateTicketUseCase(deps, numbers, categories),
		assignTicket: usecases.NewAssignTicketUseCase(deps, users),
		addUpdate:    usecases.NewAddUpdateUseCase(deps),
		closeTicket:  usecases.NewCloseTicketUseCase(deps),
		patchTicket:  usecases.NewPatchTicketUseCase(deps),
		changeStatus: usecases.NewChangeStatusUseCase(deps),
		cancelTicket: usecases.NewCancelTicketUseCase(deps),
		getTicket:    usecases.NewGetTicketUseCase(deps),
		listTickets:  usecases.NewListTicketsUseCase(deps),
		getStats:     usecases.NewGetTicketStatsUseCase(deps),
	}
}

func (s *Service) Create(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketResponse, error) {
	return s.createTicket.Execute(ctx, cmd)
}

func (s *Service) Assign(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketResponse, error) {
	return s.assignTicket.Execute(ctx, cmd)
}

func (s *Service) AddUpdate(ctx context.Context, cmd usecases.AddUpdateCommand) (*dto.UpdateResponse, error) {
	return s.addUpdate.Execute(ctx, cmd)
}

func (s *Service) Close(ctx context.Context, cmd usecases.CloseTicketCommand) (*dto.TicketResponse, error) {
	return s.closeTicket.Execute(ctx, cmd)
}

func (s *Service) Patch(ctx context.Context, cmd usecases.PatchTicketCommand) (*dto.TicketResponse, error) {
	return s.patchTicket.Execute(ctx, cmd)
}

func (s *Service) ChangeStatus(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketResponse, error) {
	return s.changeStatus.Execute(ctx, cmd)
}

func (s *Service) Cancel(ctx context.Context, cmd usecases.CancelTicketCommand) (*dto.TicketResponse, error) {
	return s.cancelTicket.Execute(ctx, cmd)
}

func (s *Service) Get(ctx context.Context, q usecases.GetTicketQuery) (*dto.TicketDetailResponse, error) {
	return s.getTicket.Execute(ctx, q)
}

func (s *Service) List(ctx context.Context, q usecases.ListTicketsQuery) (*common.ListResult[*dto.TicketResponse], error) {
	return s.listTickets.Execute(ctx, q)
}

func (s *Service) Stats(ctx context.Context, p common.Principal) (*dto.StatsResponse, error) {
	return s.getStats.Execute(ctx, p)
}
