package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	vo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const overdueBatchSize = 200

// OverdueRemindersKey turns the daily sweep off when set to false.
const OverdueRemindersKey = "tickets.overdue_reminders"

type SweepOverdueResult struct {
	Tickets  int
	Notified int
}

// SweepOverdueTicketsUseCase reminds requesters and assignees of active
// tickets past their due date. Each recipient gets at most one reminder
// per ticket per business day, so re-running the sweep is harmless.
type SweepOverdueTicketsUseCase struct {
	tickets   ticket.Repository
	notifier  Notifier
	settings  SettingReader
	batchSize int
	logger    logger.Interface
	now       func() time.Time
}

func NewSweepOverdueTicketsUseCase(tickets ticket.Repository, notifier Notifier, logger logger.Interface) *SweepOverdueTicketsUseCase {
	return &SweepOverdueTicketsUseCase{
		tickets:   tickets,
		notifier:  notifier,
		batchSize: overdueBatchSize,
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

// WithSettings lets the sweep honour the overdue reminders switch.
func (uc *SweepOverdueTicketsUseCase) WithSettings(settings SettingReader) *SweepOverdueTicketsUseCase {
	uc.settings = settings
	return uc
}

func (uc *SweepOverdueTicketsUseCase) Execute(ctx context.Context) (*SweepOverdueResult, error) {
	if !uc.remindersEnabled(ctx) {
		uc.logger.Infow("overdue reminders disabled by setting", "key", OverdueRemindersKey)
		return &SweepOverdueResult{}, nil
	}

	now := uc.now()
	dedupKey := func(id uint) string { return notification.OverdueDedupKey(id, now) }
	result := &SweepOverdueResult{}

	var afterID uint
	for {
		batch, err := uc.tickets.ListOverdue(ctx, now, afterID, uc.batchSize)
		if err != nil {
			return result, fmt.Errorf("failed to list overdue tickets: %w", err)
		}

		for _, t := range batch {
			afterID = t.ID()
			result.Tickets++

			requester := t.Requester()
			if uc.notifier.Notify(ctx, dto.Recipient{UserID: requester.ID, Email: requester.Email}, overdueMessage(t, "Your ticket %s is overdue", dedupKey(t.ID()))) {
				result.Notified++
			}

			assignee := t.Assignee()
			if assignee == nil || assignee.ID == requester.ID {
				continue
			}
			if uc.notifier.Notify(ctx, dto.Recipient{UserID: assignee.ID, Email: assignee.Email}, overdueMessage(t, "Ticket %s is overdue", dedupKey(t.ID()))) {
				result.Notified++
			}
		}

		if len(batch) < uc.batchSize {
			break
		}
	}

	uc.logger.Infow("overdue sweep finished", "tickets", result.Tickets, "notified", result.Notified)
	return result, nil
}

// remindersEnabled treats a missing or malformed setting as on.
func (uc *SweepOverdueTicketsUseCase) remindersEnabled(ctx context.Context) bool {
	if uc.settings == nil {
		return true
	}
	s, err := uc.settings.GetByKey(ctx, OverdueRemindersKey)
	if err != nil {
		return true
	}
	on, err := s.GetBoolValue()
	return err != nil || on
}

// overdueMessage builds a fresh payload per recipient; the dedup key is
// written into it.
func overdueMessage(t *ticket.Ticket, format, key string) dto.Message {
	return dto.Message{
		Type:  vo.TypeTicketOverdue,
		Title: "Ticket overdue",
		Body:  fmt.Sprintf(format, t.Number()),
		Payload: map[string]any{
			"ticket_id":     t.ID(),
			"ticket_number": t.Number(),
		},
		DedupKey: key,
	}
}
