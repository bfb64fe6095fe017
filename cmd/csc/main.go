package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/csc-helpdesk/csc/internal/interfaces/cli/migrate"
	"github.com/csc-helpdesk/csc/internal/interfaces/cli/server"
	"github.com/csc-helpdesk/csc/internal/shared/version"
)

// @title CSC Helpdesk API
// @version 1.0
// @description Internal helpdesk: tickets, notifications, reports and administration.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	rootCmd := &cobra.Command{
		Use:     "csc",
		Short:   "CSC helpdesk backend",
		Long:    `CSC helpdesk REST backend: HTTP server and database migration tools.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
