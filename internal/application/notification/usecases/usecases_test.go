package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	tvo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type mockNotificationRepository struct {
	notification.Repository
	ListFunc            func(ctx context.Context, f notification.ListFilter) ([]*notification.Notification, int64, error)
	MarkAsReadFunc      func(ctx context.Context, id uint, userID string) error
	MarkAllAsReadFunc   func(ctx context.Context, userID string) (int64, error)
	PurgeReadBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockNotificationRepository) List(ctx context.Context, f notification.ListFilter) ([]*notification.Notification, int64, error) {
	return m.ListFunc(ctx, f)
}

func (m *mockNotificationRepository) MarkAsRead(ctx context.Context, id uint, userID string) error {
	return m.MarkAsReadFunc(ctx, id, userID)
}

func (m *mockNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return m.MarkAllAsReadFunc(ctx, userID)
}

func (m *mockNotificationRepository) PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.PurgeReadBeforeFunc(ctx, cutoff)
}

type mockTicketRepository struct {
	ticket.Repository
	ListOverdueFunc func(ctx context.Context, now time.Time, afterID uint, limit int) ([]*ticket.Ticket, error)
}

func (m *mockTicketRepository) ListOverdue(ctx context.Context, now time.Time, afterID uint, limit int) ([]*ticket.Ticket, error) {
	return m.ListOverdueFunc(ctx, now, afterID, limit)
}

// memoryNotifier mimics the dispatcher's dedup behaviour.
type memoryNotifier struct {
	seen  map[string]bool
	calls []dto.Recipient
}

func (n *memoryNotifier) Notify(_ context.Context, to dto.Recipient, msg dto.Message) bool {
	n.calls = append(n.calls, to)
	key := to.UserID + "|" + msg.DedupKey
	if n.seen[key] {
		return false
	}
	n.seen[key] = true
	return true
}

func overdueTicket(t *testing.T, id uint, assignee *ticket.Party) *ticket.Ticket {
	t.Helper()
	due := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tk, err := ticket.ReconstructTicket(ticket.ReconstructParams{
		ID:        id,
		Number:    ticket.FormatNumber("20250301", int64(id)),
		Title:     "Printer offline",
		Area:      tvo.AreaIT,
		Board:     tvo.BoardIncidents,
		Priority:  tvo.PriorityHigh,
		Status:    tvo.StatusInProgress,
		DueDate:   &due,
		Requester: ticket.Party{ID: "req-1", Name: "Ana", Email: "ana@corp.com"},
		Assignee:  assignee,
		Version:   2,
		CreatedAt: due.Add(-72 * time.Hour),
		UpdatedAt: due.Add(-72 * time.Hour),
	})
	require.NoError(t, err)
	return tk
}

func TestSweepOverdueTickets_NotifiesOncePerDay(t *testing.T) {
	tickets := []*ticket.Ticket{
		overdueTicket(t, 1, &ticket.Party{ID: "agent-1", Email: "agent@corp.com"}),
		overdueTicket(t, 2, nil),
		overdueTicket(t, 3, &ticket.Party{ID: "req-1"}),
	}
	repo := &mockTicketRepository{ListOverdueFunc: func(_ context.Context, _ time.Time, afterID uint, limit int) ([]*ticket.Ticket, error) {
		var out []*ticket.Ticket
		for _, tk := range tickets {
			if tk.ID() > afterID && len(out) < limit {
				out = append(out, tk)
			}
		}
		return out, nil
	}}
	notifier := &memoryNotifier{seen: map[string]bool{}}
	uc := NewSweepOverdueTicketsUseCase(repo, notifier, logger.NewNopLogger())
	uc.batchSize = 2
	uc.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Tickets)
	// requester of each ticket plus the assignee of ticket 1
	assert.Equal(t, 4, res.Notified)

	again, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, again.Tickets)
	assert.Zero(t, again.Notified)

	uc.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }
	nextDay, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, nextDay.Notified)
}

type settingFunc func(ctx context.Context, key string) (*setting.Setting, error)

func (f settingFunc) GetByKey(ctx context.Context, key string) (*setting.Setting, error) {
	return f(ctx, key)
}

func TestSweepOverdueTickets_DisabledBySetting(t *testing.T) {
	off, err := setting.NewSetting(OverdueRemindersKey, "false", setting.ValueTypeBoolean, "", false)
	require.NoError(t, err)

	repo := &mockTicketRepository{ListOverdueFunc: func(context.Context, time.Time, uint, int) ([]*ticket.Ticket, error) {
		t.Fatal("tickets must not be listed while reminders are off")
		return nil, nil
	}}
	uc := NewSweepOverdueTicketsUseCase(repo, &memoryNotifier{seen: map[string]bool{}}, logger.NewNopLogger()).
		WithSettings(settingFunc(func(_ context.Context, key string) (*setting.Setting, error) {
			assert.Equal(t, OverdueRemindersKey, key)
			return off, nil
		}))

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Tickets)
}

func TestSweepOverdueTickets_MissingSettingKeepsRunning(t *testing.T) {
	repo := &mockTicketRepository{ListOverdueFunc: func(context.Context, time.Time, uint, int) ([]*ticket.Ticket, error) {
		return nil, nil
	}}
	notifier := &memoryNotifier{seen: map[string]bool{}}
	uc := NewSweepOverdueTicketsUseCase(repo, notifier, logger.NewNopLogger()).
		WithSettings(settingFunc(func(context.Context, string) (*setting.Setting, error) {
			return nil, stderrors.New("not found")
		}))

	_, err := uc.Execute(context.Background())
	require.NoError(t, err)
}

func TestSweepOverdueTickets_PropagatesListError(t *testing.T) {
	repo := &mockTicketRepository{ListOverdueFunc: func(context.Context, time.Time, uint, int) ([]*ticket.Ticket, error) {
		return nil, stderrors.New("db down")
	}}
	uc := NewSweepOverdueTicketsUseCase(repo, &memoryNotifier{seen: map[string]bool{}}, logger.NewNopLogger())

	_, err := uc.Execute(context.Background())
	assert.Error(t, err)
}

func TestOverdueMessage_FreshPayloadPerCall(t *testing.T) {
	tk := overdueTicket(t, 5, nil)
	a := overdueMessage(tk, "Ticket %s is overdue", "overdue:5:20250314")
	b := overdueMessage(tk, "Ticket %s is overdue", "overdue:5:20250314")

	a.Payload["dedup_key"] = "x"
	assert.NotContains(t, b.Payload, "dedup_key")
	assert.Equal(t, "Ticket CSC202503010005 is overdue", b.Body)
}

func TestListNotifications_PassesReadFilter(t *testing.T) {
	var got notification.ListFilter
	repo := &mockNotificationRepository{ListFunc: func(_ context.Context, f notification.ListFilter) ([]*notification.Notification, int64, error) {
		got = f
		return nil, 0, nil
	}}
	unread := false
	res, err := NewListNotificationsUseCase(repo, logger.NewNopLogger()).Execute(context.Background(), dto.ListNotificationsRequest{
		UserID:   "u-1",
		IsRead:   &unread,
		PageSize: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	require.NotNil(t, got.IsRead)
	assert.False(t, *got.IsRead)
	assert.Equal(t, 100, got.PageSize)
	assert.NotNil(t, res.Items)
}

func TestMarkNotificationAsRead_NotFound(t *testing.T) {
	repo := &mockNotificationRepository{MarkAsReadFunc: func(context.Context, uint, string) error {
		return notification.ErrNotificationNotFound
	}}
	err := NewMarkNotificationAsReadUseCase(repo, logger.NewNopLogger()).Execute(context.Background(), "u-1", 42)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestMarkAllAsRead_IsIdempotent(t *testing.T) {
	unread := int64(3)
	repo := &mockNotificationRepository{MarkAllAsReadFunc: func(context.Context, string) (int64, error) {
		n := unread
		unread = 0
		return n, nil
	}}
	uc := NewMarkAllAsReadUseCase(repo, logger.NewNopLogger())

	first, err := uc.Execute(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.Updated)

	second, err := uc.Execute(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Zero(t, second.Updated)
}

func TestPurgeNotifications_Cutoff(t *testing.T) {
	now := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	var cutoff time.Time
	repo := &mockNotificationRepository{PurgeReadBeforeFunc: func(_ context.Context, c time.Time) (int64, error) {
		cutoff = c
		return 0, nil
	}}
	uc := NewPurgeNotificationsUseCase(repo, 30, logger.NewNopLogger())
	uc.now = func() time.Time { return now }

	_, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 2, 6, 0, 0, 0, time.UTC), cutoff)
}
