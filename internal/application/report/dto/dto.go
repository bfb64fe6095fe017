package dto

import (
	"io"
	"sort"
	"time"

	"github.com/guregu/null/v5"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
)

// ReportFilterRequest is shared by the summary, export and activity reports.
// Dates are YYYY-MM-DD business days or RFC3339 timestamps; a date-only end
// includes the whole day.
type ReportFilterRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Area      string `form:"area"`
	Status    string `form:"status"`
}

type Distribution struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type SummaryResponse struct {
	TotalTickets      int64          `json:"total_tickets"`
	OpenTickets       int64          `json:"open_tickets"`
	InProgressTickets int64          `json:"in_progress_tickets"`
	ClosedTickets     int64          `json:"closed_tickets"`
	CancelledTickets  int64          `json:"cancelled_tickets"`
	AvgActualHours    float64        `json:"avg_resolution_time"`
	AvgHoursToClose   float64        `json:"avg_time_to_close"`
	ByStatus          []Distribution `json:"status_distribution"`
	ByPriority        []Distribution `json:"priority_distribution"`
	ByArea            []Distribution `json:"area_distribution"`
	ByBoard           []Distribution `json:"board_distribution"`
}

type UserActivityResponse struct {
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	TicketsCreated  int64      `json:"tickets_created"`
	TicketsAssigned int64      `json:"tickets_assigned"`
	TicketsClosed   int64      `json:"tickets_closed"`
	AvgActualHours  float64    `json:"avg_resolution_time"`
	LastActivity    *time.Time `json:"last_activity"`
}

// ExportFormat selects the file type produced by an export.
type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "xlsx"
)

func (f ExportFormat) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f ExportFormat) IsValid() bool {
	return f == FormatCSV || f == FormatExcel
}

// ExportColumns is the fixed column order of ticket exports.
var ExportColumns = []string{
	"Número", "Título", "Área", "Quadro", "Prioridade", "Status",
	"Solicitante", "Email Solicitante", "Responsável", "Email Responsável",
	"Data Criação", "Data Fechamento", "Horas Reais", "Horas Abertas",
}

// ExportRow is one exported ticket. Nullable columns stay null rather than
// being rendered as zero values.
type ExportRow struct {
	TicketNumber   string
	Title          string
	Area           string
	Board          string
	Priority       string
	Status         string
	RequesterName  string
	RequesterEmail string
	AssigneeName   null.String
	AssigneeEmail  null.String
	CreatedAt      time.Time
	ClosedAt       null.Time
	ActualHours    null.Float
	HoursOpen      int64
}

// Values returns the cells in ExportColumns order; null cells are nil.
func (r ExportRow) Values() []any {
	return []any{
		r.TicketNumber, r.Title, r.Area, r.Board, r.Priority, r.Status,
		r.RequesterName, r.RequesterEmail,
		nullable(r.AssigneeName.Valid, r.AssigneeName.String),
		nullable(r.AssigneeEmail.Valid, r.AssigneeEmail.String),
		r.CreatedAt,
		nullable(r.ClosedAt.Valid, r.ClosedAt.Time),
		nullable(r.ActualHours.Valid, r.ActualHours.Float64),
		r.HoursOpen,
	}
}

func nullable[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}

// ExportFile is a finished export ready to be copied to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Size        int64
	Rows        int
	Body        io.Reader
}

func ToExportRow(t *ticket.Ticket, now time.Time) ExportRow {
	row := ExportRow{
		TicketNumber:   t.Number(),
		Title:          t.Title(),
		Area:           t.Area().String(),
		Board:          t.Board().String(),
		Priority:       t.Priority().String(),
		Status:         t.Status().String(),
		RequesterName:  t.Requester().Name,
		RequesterEmail: t.Requester().Email,
		CreatedAt:      t.CreatedAt(),
		ClosedAt:       null.TimeFromPtr(t.ClosedAt()),
		ActualHours:    null.FloatFromPtr(t.ActualHours()),
		HoursOpen:      int64(t.HoursOpen(now)),
	}
	if a := t.Assignee(); a != nil {
		row.AssigneeName = null.StringFrom(a.Name)
		row.AssigneeEmail = null.StringFrom(a.Email)
	}
	return row
}

func ToSummaryResponse(s *ticket.Summary) *SummaryResponse {
	resp := &SummaryResponse{
		TotalTickets:      s.Total,
		OpenTickets:       s.Open,
		InProgressTickets: s.InProgress,
		ClosedTickets:     s.Closed,
		CancelledTickets:  s.Cancelled,
		AvgActualHours:    s.AvgActualHours,
		AvgHoursToClose:   s.AvgHoursToClose,
	}
	resp.ByStatus = distribution(s.ByStatus)
	resp.ByPriority = distribution(s.ByPriority)
	resp.ByArea = distribution(s.ByArea)
	resp.ByBoard = distribution(s.ByBoard)
	return resp
}

// distribution orders buckets by count descending, then key.
func distribution[K ~string](m map[K]int64) []Distribution {
	out := make([]Distribution, 0, len(m))
	for k, n := range m {
		out = append(out, Distribution{Key: string(k), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func ToUserActivityResponseList(rows []ticket.UserActivity) []*UserActivityResponse {
	out := make([]*UserActivityResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &UserActivityResponse{
			UserID:          r.UserID,
			Name:            r.Name,
			Email:           r.Email,
			TicketsCreated:  r.Created,
			TicketsAssigned: r.Assigned,
			TicketsClosed:   r.Closed,
			AvgActualHours:  r.AvgActualHours,
			LastActivity:    r.LastActivity,
		})
	}
	return out
}
