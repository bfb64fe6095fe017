package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/testutil"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type mockNotificationService struct {
	listFn          func(ctx context.Context, req dto.ListNotificationsRequest) (*common.ListResult[*dto.NotificationResponse], error)
	markAsReadFn    func(ctx context.Context, userID string, id uint) error
	markAllAsReadFn func(ctx context.Context, userID string) (*dto.MarkAllAsReadResponse, error)
	unreadCountFn   func(ctx context.Context, userID string) (*dto.UnreadCountResponse, error)
}

func (m *mockNotificationService) List(ctx context.Context, req dto.ListNotificationsRequest) (*common.ListResult[*dto.NotificationResponse], error) {
	return m.listFn(ctx, req)
}

func (m *mockNotificationService) MarkAsRead(ctx context.Context, userID string, id uint) error {
	return m.markAsReadFn(ctx, userID, id)
}

func (m *mockNotificationService) MarkAllAsRead(ctx context.Context, userID string) (*dto.MarkAllAsReadResponse, error) {
	return m.markAllAsReadFn(ctx, userID)
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	return m.unreadCountFn(ctx, userID)
}

func TestNotificationHandler_ListNotifications(t *testing.T) {
	var got dto.ListNotificationsRequest
	svc := &mockNotificationService{
		listFn: func(ctx context.Context, req dto.ListNotificationsRequest) (*common.ListResult[*dto.NotificationResponse], error) {
			got = req
			return &common.ListResult[*dto.NotificationResponse]{
				Items:    []*dto.NotificationResponse{{ID: 7, Type: "TICKET_ASSIGNED", Title: "Ticket assigned"}},
				Total:    1,
				Page:     req.Page,
				PageSize: req.PageSize,
			}, nil
		},
	}
	h := NewNotificationHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/notifications?is_read=false&page=2&limit=5", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal("u-1", permission.RoleUser))

	h.ListNotifications(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", got.UserID)
	require.NotNil(t, got.IsRead)
	assert.False(t, *got.IsRead)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.PageSize)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data testutil.ListData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.EqualValues(t, 1, data.Total)

	t.Run("no read filter", func(t *testing.T) {
		c, _ := testutil.NewTestContext(http.MethodGet, "/api/notifications?is_read=maybe", nil)
		testutil.SetPrincipal(c, testutil.NewPrincipal("u-1", permission.RoleUser))

		h.ListNotifications(c)

		assert.Nil(t, got.IsRead)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/notifications", nil)
		h.ListNotifications(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	var gotUser string
	var gotID uint
	svc := &mockNotificationService{
		markAsReadFn: func(ctx context.Context, userID string, id uint) error {
			gotUser, gotID = userID, id
			if id == 99 {
				return errors.NewNotFoundError("notification not found")
			}
			return nil
		},
	}
	h := NewNotificationHandler(svc, testutil.NewMockLogger())

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"ok", "7", http.StatusOK},
		{"foreign or missing", "99", http.StatusNotFound},
		{"not a number", "abc", http.StatusBadRequest},
		{"zero", "0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodPut, "/api/notifications/"+tt.id+"/read", nil)
			testutil.SetPrincipal(c, testutil.NewPrincipal("u-1", permission.RoleUser))
			testutil.SetURLParam(c, "id", tt.id)

			h.MarkAsRead(c)

			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, "u-1", gotUser)
	assert.Equal(t, uint(99), gotID)
}

func TestNotificationHandler_Counts(t *testing.T) {
	svc := &mockNotificationService{
		unreadCountFn: func(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
			return &dto.UnreadCountResponse{Count: 3}, nil
		},
		markAllAsReadFn: func(ctx context.Context, userID string) (*dto.MarkAllAsReadResponse, error) {
			return &dto.MarkAllAsReadResponse{Updated: 3}, nil
		},
	}
	h := NewNotificationHandler(svc, testutil.NewMockLogger())

	t.Run("unread count", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/notifications/unread-count", nil)
		testutil.SetPrincipal(c, testutil.NewPrincipal("u-1", permission.RoleUser))

		h.GetUnreadCount(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.JSONEq(t, `{"count":3}`, string(resp.Data))
	})

	t.Run("read all", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPut, "/api/notifications/read-all", nil)
		testutil.SetPrincipal(c, testutil.NewPrincipal("u-1", permission.RoleUser))

		h.MarkAllAsRead(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.JSONEq(t, `{"updated":3}`, string(resp.Data))
	})
}
