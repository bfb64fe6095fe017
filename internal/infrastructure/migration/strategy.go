package migration

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

var ErrNotSupported = stderrors.New("operation not supported by this migration strategy")

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate applies every pending migration
	Migrate(db *gorm.DB) error
	// MigrateDown rolls back the given number of migrations
	MigrateDown(db *gorm.DB, steps int) error
	// Version reports the applied version and whether the schema is dirty
	Version(db *gorm.DB) (int64, bool, error)
	GetName() string
}

const (
	StrategyAuto          = "auto"
	StrategyGolangMigrate = "golang_migrate"
	StrategyGoose         = "goose"
)

// GormAutoMigrateStrategy creates and alters tables from the gorm models.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{logger: logger.WithComponent("migration.auto")}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	models := Models()
	s.logger.Infow("running gorm auto migrate", "models_count", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) MigrateDown(*gorm.DB, int) error {
	return ErrNotSupported
}

func (s *GormAutoMigrateStrategy) Version(*gorm.DB) (int64, bool, error) {
	return 0, false, ErrNotSupported
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return StrategyAuto
}

// GolangMigrateStrategy runs the embedded mysql scripts with golang-migrate.
// The migrate instance is never closed: its driver owns the shared *sql.DB.
type GolangMigrateStrategy struct {
	logger logger.Interface
}

func NewGolangMigrateStrategy() Strategy {
	return &GolangMigrateStrategy{logger: logger.WithComponent("migration.golang-migrate")}
}

func (s *GolangMigrateStrategy) open(db *gorm.DB) (*migrate.Migrate, error) {
	if name := db.Dialector.Name(); name != "mysql" {
		return nil, fmt.Errorf("golang-migrate scripts target mysql, got %s", name)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL driver: %w", err)
	}
	source, err := iofs.New(scriptsFS, mysqlScriptsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration scripts: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func (s *GolangMigrateStrategy) Migrate(db *gorm.DB) error {
	m, err := s.open(db)
	if err != nil {
		return err
	}

	from, dirty, err := m.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		s.logger.Warnw("database is in dirty state, please fix manually", "version", from)
		return fmt.Errorf("database is in dirty state at version %d", from)
	}

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, _, err := m.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}
	s.logger.Infow("migration completed", "from_version", from, "to_version", to)
	return nil
}

func (s *GolangMigrateStrategy) MigrateDown(db *gorm.DB, steps int) error {
	m, err := s.open(db)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run down migrations: %w", err)
	}
	s.logger.Infow("down migration completed", "steps", steps)
	return nil
}

func (s *GolangMigrateStrategy) Version(db *gorm.DB) (int64, bool, error) {
	m, err := s.open(db)
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if stderrors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return int64(v), dirty, err
}

func (s *GolangMigrateStrategy) GetName() string {
	return StrategyGolangMigrate
}

// GooseStrategy runs the embedded postgres scripts with goose.
type GooseStrategy struct {
	logger logger.Interface
}

func NewGooseStrategy() Strategy {
	return &GooseStrategy{logger: logger.WithComponent("migration.goose")}
}

func (s *GooseStrategy) prepare(db *gorm.DB) error {
	if name := db.Dialector.Name(); name != "postgres" {
		return fmt.Errorf("goose scripts target postgres, got %s", name)
	}
	goose.SetBaseFS(scriptsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

func (s *GooseStrategy) Migrate(db *gorm.DB) error {
	if err := s.prepare(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	from, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if err := goose.Up(sqlDB, postgresScriptsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	to, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}
	s.logger.Infow("migration completed", "from_version", from, "to_version", to)
	return nil
}

func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	if err := s.prepare(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, postgresScriptsDir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}
	s.logger.Infow("down migration completed", "steps", steps)
	return nil
}

func (s *GooseStrategy) Version(db *gorm.DB) (int64, bool, error) {
	if err := s.prepare(db); err != nil {
		return 0, false, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	v, err := goose.GetDBVersion(sqlDB)
	return v, false, err
}

func (s *GooseStrategy) GetName() string {
	return StrategyGoose
}

// StrategyFor returns the named strategy, or the default for the driver when
// name is empty: auto for sqlite, golang-migrate for mysql, goose for postgres.
func StrategyFor(name, driver string) (Strategy, error) {
	if name == "" {
		switch strings.ToLower(driver) {
		case "mysql":
			name = StrategyGolangMigrate
		case "postgres":
			name = StrategyGoose
		default:
			name = StrategyAuto
		}
	}
	switch name {
	case StrategyAuto:
		return NewGormAutoMigrateStrategy(), nil
	case StrategyGolangMigrate:
		return NewGolangMigrateStrategy(), nil
	case StrategyGoose:
		return NewGooseStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown migration strategy %q", name)
	}
}
