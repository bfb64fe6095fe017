package mappers

import (
	"fmt"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/mapper"
)

// TicketMapper converts tickets and their trail entries to and from rows.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ToDomainList(rows []*models.TicketModel) ([]*ticket.Ticket, error)

	UpdateToModel(u *ticket.Update) (*models.TicketUpdateModel, error)
	UpdateToDomain(model *models.TicketUpdateModel) (*ticket.Update, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	requester := t.Requester()
	model := &models.TicketModel{
		ID:                 t.ID(),
		Number:             t.Number(),
		Title:              t.Title(),
		Description:        t.Description(),
		Area:               t.Area().String(),
		Board:              t.Board().String(),
		Priority:           t.Priority().String(),
		Status:             t.Status().String(),
		Category:           t.Category(),
		Subcategory:        t.Subcategory(),
		DueDate:            t.DueDate(),
		RequesterID:        requester.ID,
		RequesterName:      requester.Name,
		RequesterEmail:     requester.Email,
		ResolutionNotes:    t.ResolutionNotes(),
		ClosingDescription: t.ClosingDescription(),
		ActualHours:        t.ActualHours(),
		ClosedAt:           t.ClosedAt(),
		Version:            t.Version(),
		CreatedAt:          t.CreatedAt(),
		UpdatedAt:          t.UpdatedAt(),
	}
	if a := t.Assignee(); a != nil {
		model.AssigneeID, model.AssigneeName, model.AssigneeEmail = partyColumns(*a)
	}
	if c := t.ClosedBy(); c != nil {
		model.ClosedByID, model.ClosedByName, model.ClosedByEmail = partyColumns(*c)
	}
	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	area, err := vo.NewArea(model.Area)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}
	board, err := vo.NewBoard(model.Board)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}

	return ticket.ReconstructTicket(ticket.ReconstructParams{
		ID:                 model.ID,
		Number:             model.Number,
		Title:              model.Title,
		Description:        model.Description,
		Area:               area,
		Board:              board,
		Priority:           vo.Priority(model.Priority),
		Status:             vo.TicketStatus(model.Status),
		Category:           model.Category,
		Subcategory:        model.Subcategory,
		DueDate:            model.DueDate,
		Requester:          ticket.Party{ID: model.RequesterID, Name: model.RequesterName, Email: model.RequesterEmail},
		Assignee:           partyFromColumns(model.AssigneeID, model.AssigneeName, model.AssigneeEmail),
		ResolutionNotes:    model.ResolutionNotes,
		ClosingDescription: model.ClosingDescription,
		ActualHours:        model.ActualHours,
		ClosedAt:           model.ClosedAt,
		ClosedBy:           partyFromColumns(model.ClosedByID, model.ClosedByName, model.ClosedByEmail),
		Version:            model.Version,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}

func (m *TicketMapperImpl) ToDomainList(rows []*models.TicketModel) ([]*ticket.Ticket, error) {
	return mapper.MapSliceWithError(rows, m.ToDomain)
}

func (m *TicketMapperImpl) UpdateToModel(u *ticket.Update) (*models.TicketUpdateModel, error) {
	oldValue, err := encodeMap(u.OldValue())
	if err != nil {
		return nil, fmt.Errorf("failed to encode old value: %w", err)
	}
	newValue, err := encodeMap(u.NewValue())
	if err != nil {
		return nil, fmt.Errorf("failed to encode new value: %w", err)
	}
	author := u.Author()
	return &models.TicketUpdateModel{
		ID:          u.ID(),
		TicketID:    u.TicketID(),
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Kind:        u.Kind().String(),
		Message:     u.Message(),
		OldValue:    oldValue,
		NewValue:    newValue,
		IsInternal:  u.IsInternal(),
		CreatedAt:   u.CreatedAt(),
	}, nil
}

func (m *TicketMapperImpl) UpdateToDomain(model *models.TicketUpdateModel) (*ticket.Update, error) {
	oldValue, err := decodeMap(model.OldValue)
	if err != nil {
		return nil, fmt.Errorf("failed to decode old value of update %d: %w", model.ID, err)
	}
	newValue, err := decodeMap(model.NewValue)
	if err != nil {
		return nil, fmt.Errorf("failed to decode new value of update %d: %w", model.ID, err)
	}
	return ticket.ReconstructUpdate(
		model.ID,
		model.TicketID,
		ticket.Party{ID: model.AuthorID, Name: model.AuthorName, Email: model.AuthorEmail},
		vo.UpdateKind(model.Kind),
		model.Message,
		oldValue,
		newValue,
		model.IsInternal,
		model.CreatedAt,
	), nil
}

func partyColumns(p ticket.Party) (id, name, email *string) {
	return &p.ID, &p.Name, &p.Email
}

func partyFromColumns(id, name, email *string) *ticket.Party {
	if id == nil || *id == "" {
		return nil
	}
	p := ticket.Party{ID: *id}
	if name != nil {
		p.Name = *name
	}
	if email != nil {
		p.Email = *email
	}
	return &p
}
