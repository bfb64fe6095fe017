package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// DefaultScriptsRoot is where new scripts are written, relative to the repository root.
const DefaultScriptsRoot = "internal/infrastructure/migration/scripts"

// Generator handles creation of new migration files
type Generator struct {
	scriptsRoot string
	logger      logger.Interface
	now         func() time.Time
}

// NewGenerator creates a new migration generator
func NewGenerator(scriptsRoot string) *Generator {
	return &Generator{
		scriptsRoot: scriptsRoot,
		logger:      logger.WithComponent("migration.generator"),
		now:         time.Now,
	}
}

// Create writes an empty migration for the strategy's dialect and returns
// the paths written: an up/down pair for golang-migrate, a single annotated
// file for goose.
func (g *Generator) Create(strategy, name string) ([]string, error) {
	switch strategy {
	case StrategyGolangMigrate:
		return g.createPair(name)
	case StrategyGoose:
		dir := filepath.Join(g.scriptsRoot, "postgres")
		goose.SetBaseFS(nil)
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, fmt.Errorf("failed to set goose dialect: %w", err)
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return nil, fmt.Errorf("failed to create migration: %w", err)
		}
		g.logger.Infow("migration created", "dir", dir, "name", name)
		return []string{dir}, nil
	default:
		return nil, fmt.Errorf("strategy %s does not use migration scripts", strategy)
	}
}

func (g *Generator) createPair(name string) ([]string, error) {
	dir := filepath.Join(g.scriptsRoot, "mysql")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scripts directory: %w", err)
	}

	timestamp := g.now().UTC().Format("20060102150405")
	created := g.now().UTC().Format("2006-01-02 15:04:05")
	files := map[string]string{
		fmt.Sprintf("%s_%s.up.sql", timestamp, name):   fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n", name, created),
		fmt.Sprintf("%s_%s.down.sql", timestamp, name): fmt.Sprintf("-- Rollback Migration: %s\n-- Created: %s\n\n", name, created),
	}

	paths := make([]string, 0, len(files))
	for file, content := range files {
		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	g.logger.Infow("migration files created", "files", paths)
	return paths, nil
}
