package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	creator   *userCreator
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Uploader  service.MediaUploader
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		creator:   &userCreator{hasher: params.Hasher, uploader: params.Uploader, logger: params.Logger},
		logger:    params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *userService) ListUsers(ctx context.Context, plan *query.Plan) (*query.Page[*entity.User], error) {
	users, total, err := srv.userRepo.List(ctx, plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return query.NewPage(users, total, plan), nil
}

// DeleteUser removes the user and its store worker links.
func (srv *userService) DeleteUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var deleted *entity.User
	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		var err error
		deleted, err = factory.NewUserRepository().Delete(ctx, id)

		return err
	})
	if err != nil {
		return nil, notFound(err, repository.ErrUserNotFound, domainerrors.ErrUserNotFound, id)
	}

	srv.log(ctx).Info("User deleted", slog.String("user_id", id.String()))

	return deleted, nil
}

func (srv *userService) DeleteAllUsers(ctx context.Context) (int64, error) {
	var removed int64
	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		var err error
		removed, err = factory.NewUserRepository().DeleteAll(ctx)

		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete users")
	}

	srv.log(ctx).Warn("All users deleted", slog.Int64("count", removed))

	return removed, nil
}

// CreateAdmin creates an ADMIN account regardless of the requested account type.
func (srv *userService) CreateAdmin(ctx context.Context, input *usecase.NewUserInput) (*entity.User, error) {
	adminInput := *input
	adminInput.AccountType = entity.AccountTypeAdmin

	user, err := srv.creator.create(ctx, srv.userRepo, &adminInput)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Admin created", slog.String("user_id", user.ID.String()))

	return user, nil
}
