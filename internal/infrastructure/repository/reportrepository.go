package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/db"
)

// ReportRepository runs the reporting aggregates over tickets.
type ReportRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *ReportRepository) filtered(ctx context.Context, f ticket.ReportFilter) *gorm.DB {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Scopes(db.CreatedBetween("created_at", timeOrZero(f.From), timeOrZero(f.To)))
	if f.Area != nil {
		query = query.Where("area = ?", f.Area.String())
	}
	if f.Status != nil {
		query = query.Where("status = ?", f.Status.String())
	}
	return query
}

// hoursBetween renders a dialect-specific "end - start in hours" expression.
func hoursBetween(tx *gorm.DB, start, end string) string {
	switch tx.Dialector.Name() {
	case "postgres":
		return fmt.Sprintf("EXTRACT(EPOCH FROM (%s - %s)) / 3600.0", end, start)
	case "sqlite":
		return fmt.Sprintf("(julianday(%s) - julianday(%s)) * 24.0", end, start)
	default:
		return fmt.Sprintf("TIMESTAMPDIFF(SECOND, %s, %s) / 3600.0", start, end)
	}
}

func (r *ReportRepository) Summary(ctx context.Context, f ticket.ReportFilter) (*ticket.Summary, error) {
	var totals struct {
		Total           int64
		OpenCount       int64
		ProgressCount   int64
		ClosedCount     int64
		CancelledCount  int64
		AvgActualHours  *float64
		AvgHoursToClose *float64
	}
	query := r.filtered(ctx, f)
	selectSQL := fmt.Sprintf(`COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS open_count,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS progress_count,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS closed_count,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_count,
		AVG(actual_hours) AS avg_actual_hours,
		AVG(CASE WHEN status = ? AND closed_at IS NOT NULL THEN %s END) AS avg_hours_to_close`,
		hoursBetween(query, "created_at", "closed_at"))
	if err := query.Select(selectSQL,
		vo.StatusOpen.String(),
		vo.StatusInProgress.String(),
		vo.StatusClosed.String(),
		vo.StatusCancelled.String(),
		vo.StatusClosed.String(),
	).Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize tickets: %w", err)
	}

	s := &ticket.Summary{
		Total:      totals.Total,
		Open:       totals.OpenCount,
		InProgress: totals.ProgressCount,
		Closed:     totals.ClosedCount,
		Cancelled:  totals.CancelledCount,
		ByStatus:   map[vo.TicketStatus]int64{},
		ByPriority: map[vo.Priority]int64{},
		ByArea:     map[vo.Area]int64{},
		ByBoard:    map[vo.Board]int64{},
	}
	if totals.AvgActualHours != nil {
		s.AvgActualHours = *totals.AvgActualHours
	}
	if totals.AvgHoursToClose != nil {
		s.AvgHoursToClose = *totals.AvgHoursToClose
	}

	for column, apply := range map[string]func(string, int64){
		"status":   func(k string, n int64) { s.ByStatus[vo.TicketStatus(k)] = n },
		"priority": func(k string, n int64) { s.ByPriority[vo.Priority(k)] = n },
		"area":     func(k string, n int64) { s.ByArea[vo.Area(k)] = n },
		"board":    func(k string, n int64) { s.ByBoard[vo.Board(k)] = n },
	} {
		rows, err := countBy(r.filtered(ctx, f), column)
		if err != nil {
			return nil, fmt.Errorf("failed to count tickets by %s: %w", column, err)
		}
		for _, row := range rows {
			apply(row.GroupKey, row.Total)
		}
	}
	return s, nil
}

func (r *ReportRepository) ExportBatch(ctx context.Context, f ticket.ReportFilter, afterID uint, limit int) ([]*ticket.Ticket, error) {
	var rows []*models.TicketModel
	if err := r.filtered(ctx, f).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read export batch: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}

type activityRow struct {
	UserID         string
	Total          int64
	Closed         int64
	AvgActualHours *float64
	LastActivity   aggregateTime
}

// aggregateTime scans MAX() over a timestamp column. sqlite loses the column
// type on aggregates and hands back text.
type aggregateTime struct {
	Time  time.Time
	Valid bool
}

var aggregateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
}

func (t *aggregateTime) Scan(src any) error {
	*t = aggregateTime{}
	var text string
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		*t = aggregateTime{Time: v.UTC(), Valid: true}
		return nil
	case []byte:
		text = string(v)
	case string:
		text = v
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
	for _, layout := range aggregateTimeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			*t = aggregateTime{Time: parsed.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", text)
}

func (t aggregateTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// UserActivity aggregates, per user, the tickets they requested and the
// tickets assigned to them within the date range. Users without activity are omitted.
func (r *ReportRepository) UserActivity(ctx context.Context, f ticket.ReportFilter) ([]ticket.UserActivity, error) {
	rangeOnly := ticket.ReportFilter{From: f.From, To: f.To}

	var requested []activityRow
	if err := r.filtered(ctx, rangeOnly).
		Select(`requester_id AS user_id, COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS closed,
			AVG(actual_hours) AS avg_actual_hours,
			MAX(created_at) AS last_activity`, vo.StatusClosed.String()).
		Group("requester_id").
		Scan(&requested).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate requested tickets: %w", err)
	}

	var assigned []activityRow
	if err := r.filtered(ctx, rangeOnly).
		Select("assignee_id AS user_id, COUNT(*) AS total, MAX(updated_at) AS last_activity").
		Where("assignee_id IS NOT NULL").
		Group("assignee_id").
		Scan(&assigned).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate assigned tickets: %w", err)
	}

	byUser := map[string]*ticket.UserActivity{}
	entry := func(id string) *ticket.UserActivity {
		if a, ok := byUser[id]; ok {
			return a
		}
		a := &ticket.UserActivity{UserID: id}
		byUser[id] = a
		return a
	}
	for _, row := range requested {
		a := entry(row.UserID)
		a.Created = row.Total
		a.Closed = row.Closed
		if row.AvgActualHours != nil {
			a.AvgActualHours = *row.AvgActualHours
		}
		a.LastActivity = latest(a.LastActivity, row.LastActivity.ptr())
	}
	for _, row := range assigned {
		a := entry(row.UserID)
		a.Assigned = row.Total
		a.LastActivity = latest(a.LastActivity, row.LastActivity.ptr())
	}
	if len(byUser) == 0 {
		return []ticket.UserActivity{}, nil
	}

	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	var users []models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).
		Select("id, name, email").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users for activity report: %w", err)
	}
	for _, u := range users {
		byUser[u.ID].Name = u.Name
		byUser[u.ID].Email = u.Email
	}

	out := make([]ticket.UserActivity, 0, len(byUser))
	for _, a := range byUser {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created != out[j].Created {
			return out[i].Created > out[j].Created
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func latest(a, b *time.Time) *time.Time {
	if a == nil || (b != nil && b.After(*a)) {
		return b
	}
	return a
}
