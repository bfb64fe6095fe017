package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/infrastructure/config"
	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
	"github.com/csc-helpdesk/csc/internal/infrastructure/migration"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/seeds"
	"github.com/csc-helpdesk/csc/internal/infrastructure/repository"
	httpRouter "github.com/csc-helpdesk/csc/internal/interfaces/http"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/version"
)

const shutdownTimeout = 30 * time.Second

var (
	env         string
	autoMigrate bool
	skipSeed    bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the CSC helpdesk HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "Apply pending database migrations on startup")
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Skip loading default settings and categories")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	log.Infow("starting server",
		"environment", env,
		"version", version.String(),
		"auto_migrate", autoMigrate,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}()

	if err := prepareDatabase(cmd.Context(), db, cfg, log); err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(db, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	defer container.Shutdown()

	if err := container.SyncPermissions(); err != nil {
		return fmt.Errorf("failed to sync permission policies: %w", err)
	}

	container.SetupRoutes()
	container.StartBackground()

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           container.GetEngine(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// prepareDatabase applies migrations and the seed file.
func prepareDatabase(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) error {
	manager, err := migration.NewManager(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create migration manager: %w", err)
	}

	if autoMigrate {
		if env == "production" && manager.GetStrategy().GetName() == migration.StrategyAuto {
			log.Warnw("gorm auto-migration is enabled in production")
		}
		if err := manager.Migrate(db); err != nil {
			return err
		}
	} else {
		status, err := manager.Status(db)
		if err != nil {
			log.Warnw("failed to check migration status", "error", err)
		} else {
			log.Infow("current migration version", "strategy", status.Strategy, "version", status.Version, "dirty", status.Dirty)
		}
	}

	if skipSeed || cfg.Database.SeedFile == "" {
		return nil
	}

	file, err := seeds.LoadFile(cfg.Database.SeedFile)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			log.Warnw("seed file not found, skipping", "path", cfg.Database.SeedFile)
			return nil
		}
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	seeder := seeds.NewSeeder(
		repository.NewSettingRepository(db, log),
		repository.NewCategoryRepository(db),
		log,
	)
	result, err := seeder.Seed(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	log.Infow("seed applied", "settings_created", result.Settings, "categories_created", result.Categories)

	return nil
}
