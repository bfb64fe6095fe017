package ticket

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/application/ticket/usecases"
)

// ticketService is the subset of the ticket application service used by
// TicketHandler.
type ticketService interface {
	Create(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketResponse, error)
	Assign(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketResponse, error)
	AddUpdate(ctx context.Context, cmd usecases.AddUpdateCommand) (*dto.UpdateResponse, error)
	Close(ctx context.Context, cmd usecases.CloseTicketCommand) (*dto.TicketResponse, error)
	Patch(ctx context.Context, cmd usecases.PatchTicketCommand) (*dto.TicketResponse, error)
	ChangeStatus(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketResponse, error)
	Cancel(ctx context.Context, cmd usecases.CancelTicketCommand) (*dto.TicketResponse, error)
	Get(ctx context.Context, q usecases.GetTicketQuery) (*dto.TicketDetailResponse, error)
	List(ctx context.Context, q usecases.ListTicketsQuery) (*common.ListResult[*dto.TicketResponse], error)
	Stats(ctx context.Context, p common.Principal) (*dto.StatsResponse, error)
}
