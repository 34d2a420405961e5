package commands

import (
	"context"
	"log/slog"

	"storefront/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context) error {
	var (
		db     *gorm.DB
		logger *slog.Logger
	)

	return runApp(ctx, fx.Options(), func(ctx context.Context) error {
		if err := postgres.AutoMigrate(ctx, db); err != nil {
			return err
		}
		logger.Info("Schema migrated")

		return nil
	}, &db, &logger)
}
