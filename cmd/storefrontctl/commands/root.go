// Package commands implements storefrontctl, the operator CLI.
package commands

import (
	"context"
	"fmt"
	"os"

	"storefront/config"
	"storefront/internal/errors"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var rootCmd = &cobra.Command{
	Use:   "storefrontctl",
	Short: "Operator tasks for the storefront service",
	Long: `storefrontctl runs one-off operator tasks against the storefront database.

It reads the same config.yaml and environment overrides as the API server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runApp starts a short-lived fx app with the shared infra plus extra,
// populates targets, runs fn and stops the app again.
func runApp(ctx context.Context, extra fx.Option, fn func(ctx context.Context) error, targets ...any) error {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			func() context.Context { return ctx },
			postgres.New,
		),
		extra,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "wire dependencies")
	}

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "start dependencies")
	}

	runErr := fn(ctx)

	if err := app.Stop(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		return errors.Wrap(err, "stop dependencies")
	}

	return runErr
}
