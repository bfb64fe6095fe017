package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/mapper"
)

type TicketUpdateRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketUpdateRepository(db *gorm.DB) *TicketUpdateRepository {
	return &TicketUpdateRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketUpdateRepository) Create(ctx context.Context, u *ticket.Update) error {
	model, err := r.mapper.UpdateToModel(u)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save ticket update: %w", err)
	}
	u.SetID(model.ID)
	return nil
}

func (r *TicketUpdateRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Update, error) {
	var rows []*models.TicketUpdateModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket updates: %w", err)
	}
	return mapper.MapSliceWithError(rows, r.mapper.UpdateToDomain)
}
