package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type mockAuditRepository struct {
	CreateFunc func(ctx context.Context, e *audit.Entry) error
}

func (m *mockAuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return nil
}

func (m *mockAuditRepository) List(context.Context, audit.ListFilter) ([]*audit.Entry, int64, error) {
	return nil, 0, nil
}

func (m *mockAuditRepository) PurgeBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockAuditRepository) CountByResource(context.Context, string, string) (int64, error) {
	return 0, nil
}

func TestRecorder_Record_CarriesRequestMeta(t *testing.T) {
	var saved *audit.Entry
	repo := &mockAuditRepository{CreateFunc: func(_ context.Context, e *audit.Entry) error {
		saved = e
		return nil
	}}
	r := NewRecorder(repo, logger.NewNopLogger())
	ctx := WithRequestMeta(context.Background(), audit.RequestMeta{IP: "10.1.1.1", UserAgent: "test"})

	err := r.Record(ctx, audit.Actor{UserID: "u-1"}, audit.ActionLogin, "user", "u-1", nil)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, audit.ActionLogin, saved.Action())
	assert.Equal(t, "10.1.1.1", saved.Meta().IP)
}

func TestRecorder_Record_PropagatesError(t *testing.T) {
	repo := &mockAuditRepository{CreateFunc: func(context.Context, *audit.Entry) error {
		return errors.New("disk full")
	}}
	r := NewRecorder(repo, logger.NewNopLogger())

	err := r.Record(context.Background(), audit.Actor{}, audit.ActionLogout, "", "", nil)
	assert.ErrorContains(t, err, "disk full")
}

func TestRecorder_RecordBestEffort_Swallows(t *testing.T) {
	calls := 0
	repo := &mockAuditRepository{CreateFunc: func(context.Context, *audit.Entry) error {
		calls++
		return errors.New("disk full")
	}}
	r := NewRecorder(repo, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		r.RecordBestEffort(context.Background(), audit.Actor{}, audit.ActionLogout, "", "", nil)
	})
	assert.Equal(t, 1, calls)
}
