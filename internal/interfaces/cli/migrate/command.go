package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/infrastructure/config"
	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
	"github.com/csc-helpdesk/csc/internal/infrastructure/migration"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

var (
	env         string
	name        string
	steps       int
	scriptsRoot string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply, roll back, check status and create new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations with the configured strategy.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a number of migrations. Not available with the auto strategy.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the migration strategy and the applied schema version.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create empty migration files for the configured strategy.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&scriptsRoot, "dir", migration.DefaultScriptsRoot, "Migration scripts root")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func loadConfig() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// withManager opens the database and runs fn with the configured strategy.
func withManager(fn func(db *gorm.DB, m *migration.Manager, log logger.Interface) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	manager, err := migration.NewManager(&cfg.Database)
	if err != nil {
		return err
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}()

	return fn(db, manager, log)
}

func runUp(cmd *cobra.Command, args []string) error {
	return withManager(func(db *gorm.DB, m *migration.Manager, log logger.Interface) error {
		log.Infow("running up migrations", "environment", env)
		if err := m.Migrate(db); err != nil {
			return err
		}
		log.Infow("migrations completed successfully")
		return nil
	})
}

func runDown(cmd *cobra.Command, args []string) error {
	return withManager(func(db *gorm.DB, m *migration.Manager, log logger.Interface) error {
		log.Infow("running down migrations", "environment", env, "steps", steps)
		if err := m.Rollback(db, steps); err != nil {
			log.Errorw("down migration failed", "error", err)
			return fmt.Errorf("down migration failed: %w", err)
		}
		log.Infow("down migration completed successfully")
		return nil
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withManager(func(db *gorm.DB, m *migration.Manager, log logger.Interface) error {
		status, err := m.Status(db)
		if err != nil {
			log.Errorw("failed to get migration status", "error", err)
			return fmt.Errorf("failed to get migration status: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nMigration Status:\n")
		fmt.Fprintf(out, "  Environment:     %s\n", env)
		fmt.Fprintf(out, "  Strategy:        %s\n", status.Strategy)
		fmt.Fprintf(out, "  Description:     %s\n", status.Description)
		fmt.Fprintf(out, "  Current Version: %d\n", status.Version)
		fmt.Fprintf(out, "  Dirty:           %t\n", status.Dirty)
		return nil
	})
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	manager, err := migration.NewManager(&cfg.Database)
	if err != nil {
		return err
	}

	paths, err := migration.NewGenerator(scriptsRoot).Create(manager.GetStrategy().GetName(), name)
	if err != nil {
		log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
	}
	return nil
}
