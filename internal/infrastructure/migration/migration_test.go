package migration

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
)

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		name, driver, want string
	}{
		{"", "sqlite", StrategyAuto},
		{"", "mysql", StrategyGolangMigrate},
		{"", "postgres", StrategyGoose},
		{StrategyAuto, "mysql", StrategyAuto},
	}
	for _, tt := range tests {
		s, err := StrategyFor(tt.name, tt.driver)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s.GetName())
	}

	_, err := StrategyFor("flyway", "mysql")
	assert.Error(t, err)
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	gdb := database.NewTestDB(t)
	m := NewManagerWithStrategy(NewGormAutoMigrateStrategy())
	require.NoError(t, m.Migrate(gdb))

	for _, table := range []string{"users", "tickets", "ticket_updates", "ticket_counters", "audit_logs", "notifications", "system_settings", "ticket_categories"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}

	st, err := m.Status(gdb)
	require.NoError(t, err)
	assert.Equal(t, StrategyAuto, st.Strategy)
	assert.ErrorIs(t, m.Rollback(gdb, 1), ErrNotSupported)
}

func TestScriptedStrategiesRejectOtherDialects(t *testing.T) {
	gdb := database.NewTestDB(t)
	assert.Error(t, NewGolangMigrateStrategy().Migrate(gdb))
	assert.Error(t, NewGooseStrategy().Migrate(gdb))
}

func TestEmbeddedScriptsCoverEveryTable(t *testing.T) {
	mysqlUp, err := scriptsFS.ReadFile(mysqlScriptsDir + "/000001_init_schema.up.sql")
	require.NoError(t, err)
	postgres, err := scriptsFS.ReadFile(postgresScriptsDir + "/00001_init_schema.sql")
	require.NoError(t, err)

	for _, model := range Models() {
		table := model.(interface{ TableName() string }).TableName()
		assert.Contains(t, string(mysqlUp), "CREATE TABLE IF NOT EXISTS "+table+" (")
		assert.Contains(t, string(postgres), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.True(t, strings.Contains(string(postgres), "-- +goose Down"))
}

func TestGeneratorCreatesMySQLPair(t *testing.T) {
	root := t.TempDir()
	g := NewGenerator(root)
	g.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	paths, err := g.Create(StrategyGolangMigrate, "add_ticket_tags")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	sort.Strings(paths)
	assert.Equal(t, filepath.Join(root, "mysql", "20260314093000_add_ticket_tags.down.sql"), paths[0])
	assert.Equal(t, filepath.Join(root, "mysql", "20260314093000_add_ticket_tags.up.sql"), paths[1])

	content, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(content), "Migration: add_ticket_tags")

	_, err = g.Create(StrategyAuto, "nothing")
	assert.Error(t, err)
}
