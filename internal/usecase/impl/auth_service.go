package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	creator      *userCreator
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Uploader     service.MediaUploader
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		creator:      &userCreator{hasher: params.Hasher, uploader: params.Uploader, logger: params.Logger},
		logger:       params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates a user through the public signup.
func (srv *authService) Signup(ctx context.Context, input *usecase.NewUserInput) (*entity.User, error) {
	accountType := input.AccountType.Normalize()
	if accountType == "" {
		return nil, domainerrors.ErrInvalidAccountType.WithDetails("account_type is required")
	}
	if !accountType.IsPublic() {
		return nil, domainerrors.ErrInvalidAccountType.WithDetailsf("account type %q is not available for signup", input.AccountType)
	}

	user, err := srv.creator.create(ctx, srv.userRepo, input)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User signed up", slog.String("user_id", user.ID.String()), slog.String("role", user.Role.String()))

	return user, nil
}

// Signin checks the credentials and issues an access token.
func (srv *authService) Signin(ctx context.Context, input *usecase.SigninInput) (*usecase.SigninOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrEmailNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Debug("Signin rejected", slog.String("user_id", user.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}

	issuedAt := time.Now()
	token, err := srv.tokenService.IssueToken(user.ID, service.Claims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
	}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}

	return &usecase.SigninOutput{
		Token:     token,
		ExpiresAt: issuedAt.Add(srv.tokenService.DefaultTTL()),
		User:      user,
	}, nil
}

// Authenticate verifies a bearer token and loads the user it names.
func (srv *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := srv.tokenService.VerifyToken(token)
	if err != nil {
		srv.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidToken
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUnauthorized.WithDetails("user no longer exists")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load token user")
	}

	return user, nil
}

func (srv *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, repository.ErrUserNotFound, domainerrors.ErrUserNotFound, userID)
	}

	return user, nil
}
