package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	nvo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	uvo "github.com/csc-helpdesk/csc/internal/domain/user/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

func TestAssignTicketUseCase_Execute_ClaimsOpenTicket(t *testing.T) {
	tk := aliceTicket()
	f := newFixture().withTicket(tk)
	uc := NewAssignTicketUseCase(f.deps(), &mockUserLookup{})

	result, err := uc.Execute(context.Background(), AssignTicketCommand{Principal: bob, TicketID: tk.ID()})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusInProgress.String(), result.Status)
	require.NotNil(t, result.AssigneeID)
	assert.Equal(t, bob.UserID, *result.AssigneeID)
	assert.Equal(t, 2, result.Version)

	require.Len(t, f.updates.created, 1)
	u := f.updates.created[0]
	assert.Equal(t, vo.UpdateAssignment, u.Kind())
	assert.Nil(t, u.OldValue()["assignee_id"])
	assert.Equal(t, bob.UserID, u.NewValue()["assignee_id"])

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, audit.ActionTicketAssigned, f.audit.entries[0].Action)
	assert.Equal(t, bob.UserID, f.audit.entries[0].Actor.UserID)

	require.Len(t, f.notifier.to, 1)
	assert.Equal(t, alice.UserID, f.notifier.to[0].UserID)
	assert.Equal(t, nvo.TypeTicketAssigned, f.notifier.messages[0].Type)
}

func TestAssignTicketUseCase_Execute_RejectsNonOpenTicket(t *testing.T) {
	statuses := []vo.TicketStatus{vo.StatusInProgress, vo.StatusWaiting, vo.StatusResolved, vo.StatusClosed, vo.StatusCancelled}
	for _, status := range statuses {
		t.Run(status.String(), func(t *testing.T) {
			tk := aliceTicket(withStatus(status), withAssignee(mia.Party()))
			f := newFixture().withTicket(tk)
			uc := NewAssignTicketUseCase(f.deps(), &mockUserLookup{})

			_, err := uc.Execute(context.Background(), AssignTicketCommand{Principal: bob, TicketID: tk.ID()})

			require.True(t, errors.IsConflictError(err), "got %v", err)
			assert.Contains(t, err.Error(), "only open tickets may be claimed")
			assert.Equal(t, status, tk.Status())
			assert.Equal(t, mia.UserID, tk.Assignee().ID)
			assert.Zero(t, f.tickets.updated)
			assert.Empty(t, f.updates.created)
			assert.Empty(t, f.audit.entries)
			assert.Empty(t, f.notifier.to)
		})
	}
}

func TestAssignTicketUseCase_Execute_RequesterCannotAssign(t *testing.T) {
	tk := aliceTicket()
	f := newFixture().withTicket(tk)
	uc := NewAssignTicketUseCase(f.deps(), &mockUserLookup{})

	_, err := uc.Execute(context.Background(), AssignTicketCommand{Principal: alice, TicketID: tk.ID()})

	assert.True(t, errors.IsForbiddenError(err))
	assert.Equal(t, vo.StatusOpen, tk.Status())
}

func TestAssignTicketUseCase_Execute_ToAnotherUser(t *testing.T) {
	email, err := uvo.NewEmail("mia@corp.com")
	require.NoError(t, err)
	miaUser, err := user.ReconstructUser(mia.UserID, email, "Mia", permission.RoleManager, "TI", "", true, nil, time.Now(), time.Now())
	require.NoError(t, err)

	tk := aliceTicket()
	f := newFixture().withTicket(tk)
	users := &mockUserLookup{GetByEmailFunc: func(_ context.Context, e string) (*user.User, error) {
		if e == "mia@corp.com" {
			return miaUser, nil
		}
		return nil, user.ErrUserNotFound
	}}
	uc := NewAssignTicketUseCase(f.deps(), users)

	result, err := uc.Execute(context.Background(), AssignTicketCommand{Principal: bob, TicketID: tk.ID(), AssigneeEmail: " MIA@corp.com "})
	require.NoError(t, err)
	assert.Equal(t, mia.UserID, *result.AssigneeID)
	assert.Equal(t, bob.UserID, f.updates.created[0].Author().ID)

	_, err = NewAssignTicketUseCase(newFixture().withTicket(aliceTicket()).deps(), users).
		Execute(context.Background(), AssignTicketCommand{Principal: bob, TicketID: tk.ID(), AssigneeEmail: "ghost@corp.com"})
	assert.True(t, errors.IsValidationError(err))
}

func TestAssignTicketUseCase_Execute_ConcurrentModification(t *testing.T) {
	tk := aliceTicket()
	f := newFixture().withTicket(tk)
	f.tickets.UpdateFunc = func(context.Context, *ticket.Ticket) error { return ticket.ErrConcurrentModification }
	uc := NewAssignTicketUseCase(f.deps(), &mockUserLookup{})

	_, err := uc.Execute(context.Background(), AssignTicketCommand{Principal: bob, TicketID: tk.ID()})

	assert.True(t, errors.IsConflictError(err))
	assert.Empty(t, f.notifier.to)
	assert.Empty(t, f.publisher.events)
}

func TestAssignTicketUseCase_Execute_UnknownTicket(t *testing.T) {
	f := newFixture()
	uc := NewAssignTicketUseCase(f.deps(), &mockUserLookup{})

	_, err := uc.Execute(context.Background(), AssignTicketCommand{Principal: bob, TicketID: 999})

	assert.True(t, errors.IsNotFoundError(err))
}
