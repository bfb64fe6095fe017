package migration

import (
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/shared/config"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy configured for the database, falling back
// to the driver default.
func NewManager(cfg *config.DatabaseConfig) (*Manager, error) {
	strategy, err := StrategyFor(cfg.MigrationStrategy, cfg.Driver)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive")
	}
	return m.strategy.MigrateDown(db, steps)
}

// Status describes the applied schema version.
type Status struct {
	Strategy    string `json:"strategy"`
	Description string `json:"description"`
	Version     int64  `json:"version"`
	Dirty       bool   `json:"dirty"`
}

func (m *Manager) Status(db *gorm.DB) (*Status, error) {
	st := &Status{
		Strategy:    m.strategy.GetName(),
		Description: describeStrategy(m.strategy.GetName()),
	}
	v, dirty, err := m.strategy.Version(db)
	if err != nil && !stderrors.Is(err, ErrNotSupported) {
		return nil, err
	}
	st.Version, st.Dirty = v, dirty
	return st, nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

func describeStrategy(name string) string {
	switch name {
	case StrategyAuto:
		return "GORM AutoMigrate - Automatic schema migration based on struct definitions"
	case StrategyGolangMigrate:
		return "golang-migrate - Version-controlled SQL migration scripts (mysql)"
	case StrategyGoose:
		return "goose - Version-controlled SQL migration scripts (postgres)"
	default:
		return "Unknown migration strategy"
	}
}
