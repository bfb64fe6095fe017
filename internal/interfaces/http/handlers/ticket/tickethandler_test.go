package ticket

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/ticket/dto"
	"github.com/csc-helpdesk/csc/internal/application/ticket/usecases"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/testutil"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type mockTicketService struct {
	createFn       func(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketResponse, error)
	assignFn       func(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketResponse, error)
	addUpdateFn    func(ctx context.Context, cmd usecases.AddUpdateCommand) (*dto.UpdateResponse, error)
	closeFn        func(ctx context.Context, cmd usecases.CloseTicketCommand) (*dto.TicketResponse, error)
	patchFn        func(ctx context.Context, cmd usecases.PatchTicketCommand) (*dto.TicketResponse, error)
	changeStatusFn func(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketResponse, error)
	cancelFn       func(ctx context.Context, cmd usecases.CancelTicketCommand) (*dto.TicketResponse, error)
	getFn          func(ctx context.Context, q usecases.GetTicketQuery) (*dto.TicketDetailResponse, error)
	listFn         func(ctx context.Context, q usecases.ListTicketsQuery) (*common.ListResult[*dto.TicketResponse], error)
	statsFn        func(ctx context.Context, p common.Principal) (*dto.StatsResponse, error)
}

func (m *mockTicketService) Create(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketResponse, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockTicketService) Assign(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketResponse, error) {
	return m.assignFn(ctx, cmd)
}

func (m *mockTicketService) AddUpdate(ctx context.Context, cmd usecases.AddUpdateCommand) (*dto.UpdateResponse, error) {
	return m.addUpdateFn(ctx, cmd)
}

func (m *mockTicketService) Close(ctx context.Context, cmd usecases.CloseTicketCommand) (*dto.TicketResponse, error) {
	return m.closeFn(ctx, cmd)
}

func (m *mockTicketService) Patch(ctx context.Context, cmd usecases.PatchTicketCommand) (*dto.TicketResponse, error) {
	return m.patchFn(ctx, cmd)
}

func (m *mockTicketService) ChangeStatus(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketResponse, error) {
	return m.changeStatusFn(ctx, cmd)
}

func (m *mockTicketService) Cancel(ctx context.Context, cmd usecases.CancelTicketCommand) (*dto.TicketResponse, error) {
	return m.cancelFn(ctx, cmd)
}

func (m *mockTicketService) Get(ctx context.Context, q usecases.GetTicketQuery) (*dto.TicketDetailResponse, error) {
	return m.getFn(ctx, q)
}

func (m *mockTicketService) List(ctx context.Context, q usecases.ListTicketsQuery) (*common.ListResult[*dto.TicketResponse], error) {
	return m.listFn(ctx, q)
}

func (m *mockTicketService) Stats(ctx context.Context, p common.Principal) (*dto.StatsResponse, error) {
	return m.statsFn(ctx, p)
}

func newHandler(svc *mockTicketService) *TicketHandler {
	return NewTicketHandler(svc, testutil.NewMockLogger())
}

func sampleTicket() *dto.TicketResponse {
	return &dto.TicketResponse{ID: 7, TicketNumber: "CSC202401150001", Title: "Printer offline", Status: "ABERTO"}
}

var requester = testutil.NewPrincipal("u-1", permission.RoleUser)

func TestCreateTicket_Success(t *testing.T) {
	var got usecases.CreateTicketCommand
	svc := &mockTicketService{createFn: func(_ context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketResponse, error) {
		got = cmd
		return sampleTicket(), nil
	}}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets", map[string]any{
		"title":       "Printer offline",
		"description": "The 3rd floor printer is not responding",
		"area":        "TI",
		"board":       "Incidentes",
		"priority":    "HIGH",
	})
	testutil.SetPrincipal(c, requester)

	newHandler(svc).CreateTicket(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, requester, got.Principal)
	assert.Equal(t, "Printer offline", got.Title)
	assert.Equal(t, "TI", got.Area)
	assert.Equal(t, "HIGH", got.Priority)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	var ticket dto.TicketResponse
	require.NoError(t, json.Unmarshal(resp.Data, &ticket))
	assert.Equal(t, "CSC202401150001", ticket.TicketNumber)
}

func TestCreateTicket_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"short title", map[string]any{"title": "Hi", "description": "long enough description", "area": "TI", "board": "Incidentes"}},
		{"short description", map[string]any{"title": "Printer offline", "description": "short", "area": "TI", "board": "Incidentes"}},
		{"unknown area", map[string]any{"title": "Printer offline", "description": "long enough description", "area": "Marketing", "board": "Incidentes"}},
		{"bad priority", map[string]any{"title": "Printer offline", "description": "long enough description", "area": "TI", "board": "Incidentes", "priority": "URGENT"}},
		{"missing board", map[string]any{"title": "Printer offline", "description": "long enough description", "area": "TI"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTicketService{createFn: func(context.Context, usecases.CreateTicketCommand) (*dto.TicketResponse, error) {
				t.Fatal("service must not be called")
				return nil, nil
			}}
			c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets", tt.body)
			testutil.SetPrincipal(c, requester)

			newHandler(svc).CreateTicket(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
		})
	}
}

func TestCreateTicket_RequiresPrincipal(t *testing.T) {
	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets", map[string]any{})
	newHandler(&mockTicketService{}).CreateTicket(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListTickets_PassesFiltersAndPaginates(t *testing.T) {
	var got usecases.ListTicketsQuery
	svc := &mockTicketService{listFn: func(_ context.Context, q usecases.ListTicketsQuery) (*common.ListResult[*dto.TicketResponse], error) {
		got = q
		return &common.ListResult[*dto.TicketResponse]{
			Items:    []*dto.TicketResponse{sampleTicket()},
			Total:    41,
			Page:     q.Page,
			PageSize: q.PageSize,
		}, nil
	}}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets", nil)
	testutil.SetQueryParams(c, map[string]string{
		"status": "ABERTO", "area": "TI", "search": "printer",
		"page": "2", "limit": "20", "sort_by": "priority", "sort_order": "ASC",
	})
	testutil.SetPrincipal(c, requester)

	newHandler(svc).ListTickets(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ABERTO", got.Status)
	assert.Equal(t, "TI", got.Area)
	assert.Equal(t, "printer", got.Search)
	assert.Equal(t, "priority", got.SortBy)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 20, got.PageSize)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var list testutil.ListData
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, int64(41), list.Total)
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, 2, list.Pagination.Page)
	assert.Equal(t, 20, list.Pagination.Limit)
	assert.Equal(t, 3, list.Pagination.Pages)
}

func TestListTickets_CapsLimit(t *testing.T) {
	var got usecases.ListTicketsQuery
	svc := &mockTicketService{listFn: func(_ context.Context, q usecases.ListTicketsQuery) (*common.ListResult[*dto.TicketResponse], error) {
		got = q
		return &common.ListResult[*dto.TicketResponse]{Page: q.Page, PageSize: q.PageSize}, nil
	}}
	c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets?limit=500", nil)
	testutil.SetPrincipal(c, requester)

	newHandler(svc).ListTickets(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.MaxPageSize, got.PageSize)
	assert.Equal(t, 1, got.Page)
}

func TestGetTicket(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/abc", nil)
		testutil.SetPrincipal(c, requester)
		testutil.SetURLParam(c, "id", "abc")
		newHandler(&mockTicketService{}).GetTicket(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not visible", func(t *testing.T) {
		svc := &mockTicketService{getFn: func(context.Context, usecases.GetTicketQuery) (*dto.TicketDetailResponse, error) {
			return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
		}}
		c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/9", nil)
		testutil.SetPrincipal(c, requester)
		testutil.SetURLParam(c, "id", "9")
		newHandler(svc).GetTicket(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("found", func(t *testing.T) {
		var got usecases.GetTicketQuery
		svc := &mockTicketService{getFn: func(_ context.Context, q usecases.GetTicketQuery) (*dto.TicketDetailResponse, error) {
			got = q
			return &dto.TicketDetailResponse{Ticket: sampleTicket(), Updates: []*dto.UpdateResponse{{ID: 1, Kind: "CREATED"}}}, nil
		}}
		c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/7", nil)
		testutil.SetPrincipal(c, requester)
		testutil.SetURLParam(c, "id", "7")
		newHandler(svc).GetTicket(c)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(7), got.TicketID)
		assert.Contains(t, w.Body.String(), `"update_type":"CREATED"`)
	})
}

func TestAssignTicket(t *testing.T) {
	manager := testutil.NewPrincipal("m-1", permission.RoleManager)

	t.Run("claim without body", func(t *testing.T) {
		var got usecases.AssignTicketCommand
		svc := &mockTicketService{assignFn: func(_ context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketResponse, error) {
			got = cmd
			return sampleTicket(), nil
		}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/assign", nil)
		testutil.SetPrincipal(c, manager)
		testutil.SetURLParam(c, "id", "7")

		newHandler(svc).AssignTicket(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(7), got.TicketID)
		assert.Empty(t, got.AssigneeEmail)
		assert.Equal(t, manager, got.Principal)
	})

	t.Run("hand over", func(t *testing.T) {
		var got usecases.AssignTicketCommand
		svc := &mockTicketService{assignFn: func(_ context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketResponse, error) {
			got = cmd
			return sampleTicket(), nil
		}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/assign", map[string]any{"assignee_email": "bia@corp.com"})
		testutil.SetPrincipal(c, manager)
		testutil.SetURLParam(c, "id", "7")

		newHandler(svc).AssignTicket(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "bia@corp.com", got.AssigneeEmail)
	})

	t.Run("not open", func(t *testing.T) {
		svc := &mockTicketService{assignFn: func(context.Context, usecases.AssignTicketCommand) (*dto.TicketResponse, error) {
			return nil, errors.NewConflictError("only open tickets may be claimed")
		}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/assign", nil)
		testutil.SetPrincipal(c, manager)
		testutil.SetURLParam(c, "id", "7")

		newHandler(svc).AssignTicket(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "only open tickets may be claimed")
	})
}

func TestCloseTicket(t *testing.T) {
	admin := testutil.NewPrincipal("a-1", permission.RoleAdmin)

	t.Run("missing notes", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/close", map[string]any{"resolution_notes": ""})
		testutil.SetPrincipal(c, admin)
		testutil.SetURLParam(c, "id", "7")
		newHandler(&mockTicketService{}).CloseTicket(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative hours", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/close", map[string]any{"resolution_notes": "Replaced toner", "actual_hours": -1})
		testutil.SetPrincipal(c, admin)
		testutil.SetURLParam(c, "id", "7")
		newHandler(&mockTicketService{}).CloseTicket(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("closed", func(t *testing.T) {
		var got usecases.CloseTicketCommand
		svc := &mockTicketService{closeFn: func(_ context.Context, cmd usecases.CloseTicketCommand) (*dto.TicketResponse, error) {
			got = cmd
			return sampleTicket(), nil
		}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/close", map[string]any{"resolution_notes": "Replaced toner", "actual_hours": 1.5})
		testutil.SetPrincipal(c, admin)
		testutil.SetURLParam(c, "id", "7")

		newHandler(svc).CloseTicket(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Replaced toner", got.ResolutionNotes)
		require.NotNil(t, got.ActualHours)
		assert.InDelta(t, 1.5, *got.ActualHours, 1e-9)
	})

	t.Run("already closed", func(t *testing.T) {
		svc := &mockTicketService{closeFn: func(context.Context, usecases.CloseTicketCommand) (*dto.TicketResponse, error) {
			return nil, errors.NewConflictError("ticket is already closed")
		}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/close", map[string]any{"resolution_notes": "Replaced toner"})
		testutil.SetPrincipal(c, admin)
		testutil.SetURLParam(c, "id", "7")
		newHandler(svc).CloseTicket(c)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAddUpdate(t *testing.T) {
	var got usecases.AddUpdateCommand
	svc := &mockTicketService{addUpdateFn: func(_ context.Context, cmd usecases.AddUpdateCommand) (*dto.UpdateResponse, error) {
		got = cmd
		return &dto.UpdateResponse{ID: 3, Kind: "COMMENT", Message: cmd.Message}, nil
	}}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/updates", map[string]any{"message": "Checked the cable", "is_internal": true})
	testutil.SetPrincipal(c, requester)
	testutil.SetURLParam(c, "id", "7")

	newHandler(svc).AddUpdate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Checked the cable", got.Message)
	assert.True(t, got.IsInternal)

	t.Run("too short", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/updates", map[string]any{"message": "ok"})
		testutil.SetPrincipal(c, requester)
		testutil.SetURLParam(c, "id", "7")
		newHandler(&mockTicketService{}).AddUpdate(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPatchTicket_OnlySuppliedFields(t *testing.T) {
	var got usecases.PatchTicketCommand
	svc := &mockTicketService{patchFn: func(_ context.Context, cmd usecases.PatchTicketCommand) (*dto.TicketResponse, error) {
		got = cmd
		return sampleTicket(), nil
	}}
	c, w := testutil.NewTestContext(http.MethodPatch, "/api/tickets/7", map[string]any{"priority": "CRITICAL"})
	testutil.SetPrincipal(c, testutil.NewPrincipal("m-1", permission.RoleManager))
	testutil.SetURLParam(c, "id", "7")

	newHandler(svc).PatchTicket(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Priority)
	assert.Equal(t, "CRITICAL", *got.Priority)
	assert.Nil(t, got.Title)
	assert.Nil(t, got.DueDate)
	assert.False(t, got.ClearDueDate)
}

func TestChangeStatusAndCancel(t *testing.T) {
	var status usecases.ChangeStatusCommand
	var cancel usecases.CancelTicketCommand
	svc := &mockTicketService{
		changeStatusFn: func(_ context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketResponse, error) {
			status = cmd
			return sampleTicket(), nil
		},
		cancelFn: func(_ context.Context, cmd usecases.CancelTicketCommand) (*dto.TicketResponse, error) {
			cancel = cmd
			return sampleTicket(), nil
		},
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/status", map[string]any{"status": "AGUARDANDO"})
	testutil.SetPrincipal(c, testutil.NewPrincipal("m-1", permission.RoleManager))
	testutil.SetURLParam(c, "id", "7")
	newHandler(svc).ChangeStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AGUARDANDO", status.Status)

	c, w = testutil.NewTestContext(http.MethodPost, "/api/tickets/7/cancel", nil)
	testutil.SetPrincipal(c, requester)
	testutil.SetURLParam(c, "id", "7")
	newHandler(svc).CancelTicket(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), cancel.TicketID)
	assert.Empty(t, cancel.Reason)
}

func TestGetStats_InternalErrorIsGeneric(t *testing.T) {
	svc := &mockTicketService{statsFn: func(context.Context, common.Principal) (*dto.StatsResponse, error) {
		return nil, stderrors.New("dial tcp 10.0.0.3:3306: connection refused")
	}}
	c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/stats", nil)
	testutil.SetPrincipal(c, requester)

	newHandler(svc).GetStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Contains(t, w.Body.String(), constants.ErrMsgInternalServerError)
}
