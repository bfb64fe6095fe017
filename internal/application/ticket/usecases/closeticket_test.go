package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	nvo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

func TestCloseTicketUseCase_Execute_Success(t *testing.T) {
	tk := aliceTicket(withStatus(vo.StatusInProgress), withAssignee(bob.Party()))
	f := newFixture().withTicket(tk)
	uc := NewCloseTicketUseCase(f.deps())
	hours := 1.5

	result, err := uc.Execute(context.Background(), CloseTicketCommand{
		Principal:       bob,
		TicketID:        tk.ID(),
		ResolutionNotes: "Replaced toner",
		ActualHours:     &hours,
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosed.String(), result.Status)
	require.NotNil(t, result.ClosedAt)
	require.NotNil(t, result.ClosedByID)
	assert.Equal(t, bob.UserID, *result.ClosedByID)
	assert.Equal(t, "Replaced toner", result.ResolutionNotes)

	require.Len(t, f.updates.created, 1)
	assert.Equal(t, vo.UpdateResolution, f.updates.created[0].Kind())
	assert.Equal(t, 1.5, f.updates.created[0].NewValue()["actual_hours"])
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, audit.ActionTicketClosed, f.audit.entries[0].Action)

	require.Len(t, f.notifier.to, 1)
	assert.Equal(t, alice.UserID, f.notifier.to[0].UserID)
	assert.Equal(t, nvo.TypeTicketClosed, f.notifier.messages[0].Type)
}

func TestCloseTicketUseCase_Execute_OpenTicketCanBeClosed(t *testing.T) {
	tk := aliceTicket()
	f := newFixture().withTicket(tk)

	result, err := NewCloseTicketUseCase(f.deps()).Execute(context.Background(), CloseTicketCommand{
		Principal: bob, TicketID: tk.ID(), ResolutionNotes: "Duplicate of another ticket",
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosed.String(), result.Status)
}

func TestCloseTicketUseCase_Execute_AlreadyClosedIsNoOp(t *testing.T) {
	closedAt := time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC)
	tk := aliceTicket(withAssignee(bob.Party()), withClosed(closedAt, bob.Party()))
	f := newFixture().withTicket(tk)

	_, err := NewCloseTicketUseCase(f.deps()).Execute(context.Background(), CloseTicketCommand{
		Principal: bob, TicketID: tk.ID(), ResolutionNotes: "Closing again",
	})

	require.True(t, errors.IsConflictError(err))
	assert.Contains(t, err.Error(), "ticket is already closed")
	assert.Equal(t, closedAt, *tk.ClosedAt())
	assert.Equal(t, "Replaced toner", tk.ResolutionNotes())
	assert.Equal(t, 1, tk.Version())
	assert.Zero(t, f.tickets.updated)
	assert.Empty(t, f.audit.entries)
	assert.Empty(t, f.notifier.to)
}

func TestCloseTicketUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		cmd   CloseTicketCommand
		check func(error) bool
	}{
		{name: "missing notes", cmd: CloseTicketCommand{Principal: bob, ResolutionNotes: "   "}, check: errors.IsValidationError},
		{name: "negative hours", cmd: CloseTicketCommand{Principal: bob, ResolutionNotes: "Replaced toner", ActualHours: ptr(-1.0)}, check: errors.IsValidationError},
		{name: "manager lacks close", cmd: CloseTicketCommand{Principal: mia, ResolutionNotes: "Replaced toner"}, check: errors.IsForbiddenError},
		{name: "requester lacks close", cmd: CloseTicketCommand{Principal: alice, ResolutionNotes: "Replaced toner"}, check: errors.IsForbiddenError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := aliceTicket(withStatus(vo.StatusInProgress), withAssignee(bob.Party()))
			f := newFixture().withTicket(tk)
			tt.cmd.TicketID = tk.ID()

			_, err := NewCloseTicketUseCase(f.deps()).Execute(context.Background(), tt.cmd)

			assert.True(t, tt.check(err), "got %v", err)
			assert.Equal(t, vo.StatusInProgress, tk.Status())
			assert.Nil(t, tk.ClosedAt())
		})
	}
}

func TestCloseTicketUseCase_Execute_CancelledTicket(t *testing.T) {
	tk := aliceTicket(withStatus(vo.StatusCancelled))
	f := newFixture().withTicket(tk)

	_, err := NewCloseTicketUseCase(f.deps()).Execute(context.Background(), CloseTicketCommand{
		Principal: bob, TicketID: tk.ID(), ResolutionNotes: "Replaced toner",
	})

	assert.True(t, errors.IsConflictError(err))
}

func TestCloseTicketUseCase_Execute_PublishFailureIgnored(t *testing.T) {
	tk := aliceTicket(withStatus(vo.StatusInProgress), withAssignee(bob.Party()))
	f := newFixture().withTicket(tk)
	f.publisher.err = stderrors.New("broker down")

	_, err := NewCloseTicketUseCase(f.deps()).Execute(context.Background(), CloseTicketCommand{
		Principal: bob, TicketID: tk.ID(), ResolutionNotes: "Replaced toner",
	})

	require.NoError(t, err)
	assert.Len(t, f.publisher.events, 1)
}

func ptr[T any](v T) *T { return &v }
