package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/common"
	notificationdto "github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type mockTicketRepository struct {
	CreateFunc  func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc  func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc func(ctx context.Context, id uint) (*ticket.Ticket, error)
	ListFunc    func(ctx context.Context, f ticket.Filter) ([]*ticket.Ticket, int64, error)
	StatsFunc   func(ctx context.Context, scope ticket.Scope, since time.Time) (*ticket.Stats, error)

	updated int
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	m.updated++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) GetByNumber(context.Context, string) (*ticket.Ticket, error) {
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) List(ctx context.Context, f ticket.Filter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) Stats(ctx context.Context, scope ticket.Scope, since time.Time) (*ticket.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, scope, since)
	}
	return &ticket.Stats{}, nil
}

func (m *mockTicketRepository) ListOverdue(context.Context, time.Time, uint, int) ([]*ticket.Ticket, error) {
	return nil, nil
}

type mockUpdateRepository struct {
	CreateFunc       func(ctx context.Context, u *ticket.Update) error
	ListByTicketFunc func(ctx context.Context, ticketID uint) ([]*ticket.Update, error)

	created []*ticket.Update
}

func (m *mockUpdateRepository) Create(ctx context.Context, u *ticket.Update) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, u); err != nil {
			return err
		}
	}
	m.created = append(m.created, u)
	return nil
}

func (m *mockUpdateRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Update, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return m.created, nil
}

type recordedAudit struct {
	Actor   audit.Actor
	Action  audit.Action
	Details map[string]any
}

type mockAuditRecorder struct {
	RecordFunc func(ctx context.Context, action audit.Action) error

	entries []recordedAudit
}

func (m *mockAuditRecorder) Record(ctx context.Context, actor audit.Actor, action audit.Action, _, _ string, details map[string]any) error {
	if m.RecordFunc != nil {
		if err := m.RecordFunc(ctx, action); err != nil {
			return err
		}
	}
	m.entries = append(m.entries, recordedAudit{Actor: actor, Action: action, Details: details})
	return nil
}

// mockTransactor runs fn inline; it reports whether the last run failed so
// tests can assert a rollback would have happened.
type mockTransactor struct {
	runs       int
	rolledBack bool
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	err := fn(ctx)
	m.rolledBack = err != nil
	return err
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notificationdto.Message
	to       []notificationdto.Recipient
}

func (n *recordingNotifier) Notify(_ context.Context, to notificationdto.Recipient, msg notificationdto.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.to = append(n.to, to)
	n.messages = append(n.messages, msg)
	return true
}

type recordingPublisher struct {
	events []ticket.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e ticket.Event) error {
	p.events = append(p.events, e)
	return p.err
}

type mockNumberGenerator struct {
	numbers []string
	calls   int
}

func (m *mockNumberGenerator) Generate(context.Context) (string, error) {
	n := m.numbers[m.calls%len(m.numbers)]
	m.calls++
	return n, nil
}

type mockUserLookup struct {
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
}

func (m *mockUserLookup) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrUserNotFound
}

type mockCategoryRepository struct {
	FindByNameFunc func(ctx context.Context, area vo.Area, name string) (*category.Category, error)
}

func (m *mockCategoryRepository) Create(context.Context, *category.Category) error { return nil }

func (m *mockCategoryRepository) FindByName(ctx context.Context, area vo.Area, name string) (*category.Category, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, area, name)
	}
	return nil, category.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List(context.Context, category.ListFilter) ([]*category.Category, error) {
	return nil, nil
}

type fixture struct {
	tx        *mockTransactor
	tickets   *mockTicketRepository
	updates   *mockUpdateRepository
	audit     *mockAuditRecorder
	notifier  *recordingNotifier
	publisher *recordingPublisher
}

func newFixture() *fixture {
	return &fixture{
		tx:        &mockTransactor{},
		tickets:   &mockTicketRepository{},
		updates:   &mockUpdateRepository{},
		audit:     &mockAuditRecorder{},
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Tx:        f.tx,
		Tickets:   f.tickets,
		Updates:   f.updates,
		Audit:     f.audit,
		Notifier:  f.notifier,
		Publisher: f.publisher,
		Logger:    logger.NewNopLogger(),
	}
}

// withTicket makes GetByID return t for its ID.
func (f *fixture) withTicket(t *ticket.Ticket) *fixture {
	f.tickets.GetByIDFunc = func(_ context.Context, id uint) (*ticket.Ticket, error) {
		if id == t.ID() {
			return t, nil
		}
		return nil, ticket.ErrTicketNotFound
	}
	return f
}

var (
	alice = common.Principal{UserID: "u-alice", Email: "alice@corp.com", Name: "Alice", Role: permission.RoleUser}
	carol = common.Principal{UserID: "u-carol", Email: "carol@corp.com", Name: "Carol", Role: permission.RoleUser}
	bob   = common.Principal{UserID: "u-bob", Email: "bob@corp.com", Name: "Bob", Role: permission.RoleAdmin}
	mia   = common.Principal{UserID: "u-mia", Email: "mia@corp.com", Name: "Mia", Role: permission.RoleManager}
	vic   = common.Principal{UserID: "u-vic", Email: "vic@corp.com", Name: "Vic", Role: permission.RoleViewer}
)

type ticketOption func(*ticket.ReconstructParams)

func withStatus(s vo.TicketStatus) ticketOption {
	return func(p *ticket.ReconstructParams) { p.Status = s }
}

func withAssignee(a ticket.Party) ticketOption {
	return func(p *ticket.ReconstructParams) { p.Assignee = &a }
}

func withClosed(at time.Time, by ticket.Party) ticketOption {
	return func(p *ticket.ReconstructParams) {
		p.Status = vo.StatusClosed
		p.ClosedAt = &at
		p.ClosedBy = &by
		p.ResolutionNotes = "Replaced toner"
	}
}

func aliceTicket(opts ...ticketOption) *ticket.Ticket {
	created := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	params := ticket.ReconstructParams{
		ID:          10,
		Number:      "CSC202503140001",
		Title:       "Printer broken",
		Description: "Printer on 3rd floor won't print",
		Area:        vo.AreaIT,
		Board:       vo.BoardIncidents,
		Priority:    vo.PriorityMedium,
		Status:      vo.StatusOpen,
		Requester:   alice.Party(),
		Version:     1,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&params)
	}
	t, err := ticket.ReconstructTicket(params)
	if err != nil {
		panic(err)
	}
	return t
}

// tagStripper is a crude markup remover standing in for the HTML policy.
type tagStripper struct{}

func (tagStripper) StripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
