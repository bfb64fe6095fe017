package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type scopeRow struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
}

func newScopeDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(&scopeRow{}))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, gdb.Create(&scopeRow{Name: name, CreatedAt: base.AddDate(0, 0, i)}).Error)
	}
	return gdb
}

func TestPaginateAndOrderBy(t *testing.T) {
	gdb := newScopeDB(t)
	allowed := map[string]string{"name": "name", "created_at": "created_at"}

	var rows []scopeRow
	err := gdb.Scopes(OrderBy("name", "asc", allowed, "created_at"), Paginate(2, 2)).Find(&rows).Error
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c", rows[0].Name)
	assert.Equal(t, "d", rows[1].Name)

	rows = nil
	err = gdb.Scopes(OrderBy("name; DROP TABLE scope_rows", "sideways", allowed, "created_at"), Paginate(1, 1)).Find(&rows).Error
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "e", rows[0].Name, "unknown column falls back and direction defaults to DESC")
}

func TestCreatedBetween(t *testing.T) {
	gdb := newScopeDB(t)

	var count int64
	from := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, gdb.Model(&scopeRow{}).Scopes(CreatedBetween("created_at", from, to)).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	require.NoError(t, gdb.Model(&scopeRow{}).Scopes(CreatedBetween("created_at", time.Time{}, time.Time{})).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestRunInTransaction_RollsBackAndNests(t *testing.T) {
	gdb := newScopeDB(t)
	tm := NewTransactionManager(gdb)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		tx := GetTxFromContext(ctx, gdb)
		require.NoError(t, tx.Create(&scopeRow{Name: "f"}).Error)

		return tm.RunInTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, tx, GetTxFromContext(inner, gdb))
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, gdb.Model(&scopeRow{}).Where("name = ?", "f").Count(&count).Error)
	assert.Zero(t, count)
	assert.False(t, InTransaction(context.Background()))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%printer%", ContainsPattern("printer"))
	assert.Equal(t, "%10!%%", ContainsPattern("10%"))
	assert.Equal(t, "%a!_b%", ContainsPattern("a_b"))
	assert.Equal(t, "%wow!!%", ContainsPattern("wow!"))

	gdb := newScopeDB(t)
	require.NoError(t, gdb.Create(&scopeRow{Name: "x_y"}).Error)
	require.NoError(t, gdb.Create(&scopeRow{Name: "xzy"}).Error)

	var count int64
	err := gdb.Model(&scopeRow{}).Where("name LIKE ? ESCAPE '!'", ContainsPattern("x_y")).Count(&count).Error
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
