package commands

import (
	"context"
	"fmt"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/media"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	adminEmail     string
	adminUsername  string
	adminPassword  string
	adminFirstName string
	adminLastName  string
)

// createAdminCmd is the only way to obtain an ADMIN account.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an ADMIN account",
	Long: `Create an ADMIN account. Signup never grants ADMIN, so the first
administrator has to be created here.

Examples:
  storefrontctl create-admin --email ops@example.com --username ops --password 's3cret!'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCreateAdmin(cmd.Context(), cmd)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (required)")
	createAdminCmd.Flags().StringVar(&adminFirstName, "first-name", "", "First name")
	createAdminCmd.Flags().StringVar(&adminLastName, "last-name", "", "Last name")
	for _, name := range []string{"email", "username", "password"} {
		_ = createAdminCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(ctx context.Context, cmd *cobra.Command) error {
	var userUC usecase.UserUsecase

	deps := fx.Provide(
		postgres.NewUserRepository,
		postgres.NewTransactionManager,
		auth.NewBcryptHasher,
		media.NewBlobUploader,
		impl.NewUserService,
	)

	return runApp(ctx, deps, func(ctx context.Context) error {
		admin, err := userUC.CreateAdmin(ctx, &usecase.NewUserInput{
			AccountType: entity.AccountTypeAdmin,
			Email:       adminEmail,
			Username:    adminUsername,
			Password:    adminPassword,
			FirstName:   adminFirstName,
			LastName:    adminLastName,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Username, admin.ID)

		return nil
	}, &userUC)
}
