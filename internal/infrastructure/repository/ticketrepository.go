package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/db"
)

// priorityRank orders priorities by severity instead of by name.
const priorityRank = "CASE priority WHEN 'LOW' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'HIGH' THEN 3 WHEN 'CRITICAL' THEN 4 ELSE 0 END"

// ticketOrderColumns whitelists ORDER BY fields.
var ticketOrderColumns = map[string]string{
	"id":            "id",
	"number":        "number",
	"ticket_number": "number",
	"title":         "title",
	"status":        "status",
	"priority":      priorityRank,
	"area":          "area",
	"due_date":      "due_date",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

// Create returns the driver's duplicate-key error unchanged when the number is taken.
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}
	return t.SetID(model.ID)
}

// Update writes every mutable column guarded by the version the ticket was
// loaded with. Each aggregate mutation bumps the version exactly once.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"title":               model.Title,
			"description":         model.Description,
			"area":                model.Area,
			"board":               model.Board,
			"priority":            model.Priority,
			"status":              model.Status,
			"category":            model.Category,
			"subcategory":         model.Subcategory,
			"due_date":            model.DueDate,
			"assignee_id":         model.AssigneeID,
			"assignee_name":       model.AssigneeName,
			"assignee_email":      model.AssigneeEmail,
			"resolution_notes":    model.ResolutionNotes,
			"closing_description": model.ClosingDescription,
			"actual_hours":        model.ActualHours,
			"closed_at":           model.ClosedAt,
			"closed_by_id":        model.ClosedByID,
			"closed_by_name":      model.ClosedByName,
			"closed_by_email":     model.ClosedByEmail,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check ticket: %w", err)
	}
	if count == 0 {
		return ticket.ErrTicketNotFound
	}
	return ticket.ErrConcurrentModification
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *TicketRepository) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	return r.first(ctx, "number = ?", number)
}

func (r *TicketRepository) first(ctx context.Context, query string, arg any) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// scoped restricts a query to the tickets visible under scope.
func scoped(query *gorm.DB, scope ticket.Scope) *gorm.DB {
	if scope.All {
		return query
	}
	return query.Where("requester_id = ?", scope.RequesterID)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	query := scoped(db.GetTxFromContext(ctx, r.db).Model(&models.TicketModel{}), filter.Scope)

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Area != nil {
		query = query.Where("area = ?", filter.Area.String())
	}
	if filter.Board != nil {
		query = query.Where("board = ?", filter.Board.String())
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := db.ContainsPattern(strings.ToLower(s))
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(number) LIKE ? ESCAPE '!')", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	// id breaks ties so pages are stable.
	query = db.OrderBy(filter.SortBy, filter.SortOrder, ticketOrderColumns, "created_at")(query).Order("id DESC")

	var rows []*models.TicketModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.mapper.ToDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

type groupCount struct {
	GroupKey string
	Total    int64
}

func countBy(query *gorm.DB, column string) ([]groupCount, error) {
	var rows []groupCount
	err := query.Select(column + " AS group_key, COUNT(*) AS total").Group(column).Scan(&rows).Error
	return rows, err
}

func (r *TicketRepository) Stats(ctx context.Context, scope ticket.Scope, since time.Time) (*ticket.Stats, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	base := func() *gorm.DB { return scoped(tx.Model(&models.TicketModel{}), scope) }

	stats := &ticket.Stats{
		ByStatus:   map[vo.TicketStatus]int64{},
		ByPriority: map[vo.Priority]int64{},
		ByArea:     map[vo.Area]int64{},
	}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	if err := base().Where("created_at >= ?", since.UTC()).Count(&stats.LastWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent tickets: %w", err)
	}

	byStatus, err := countBy(base(), "status")
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by status: %w", err)
	}
	for _, row := range byStatus {
		stats.ByStatus[vo.TicketStatus(row.GroupKey)] = row.Total
	}

	byPriority, err := countBy(base(), "priority")
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by priority: %w", err)
	}
	for _, row := range byPriority {
		stats.ByPriority[vo.Priority(row.GroupKey)] = row.Total
	}

	byArea, err := countBy(base(), "area")
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by area: %w", err)
	}
	for _, row := range byArea {
		stats.ByArea[vo.Area(row.GroupKey)] = row.Total
	}
	return stats, nil
}

func (r *TicketRepository) ListOverdue(ctx context.Context, now time.Time, afterID uint, limit int) ([]*ticket.Ticket, error) {
	active := make([]string, 0, 3)
	for _, s := range vo.ActiveStatuses() {
		active = append(active, s.String())
	}

	var rows []*models.TicketModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("due_date IS NOT NULL AND due_date < ?", now.UTC()).
		Where("status IN ?", active).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list overdue tickets: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}
