package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signupInput(name string, accountType entity.AccountType) *usecase.NewUserInput {
	return &usecase.NewUserInput{
		AccountType: accountType,
		Email:       "  " + name + "@Example.com ",
		Username:    name,
		Password:    "p@ssw0rd",
		FirstName:   "First",
		LastName:    "Last",
		Phones:      []string{"+256700000000", " "},
	}
}

func TestAuthService_Signup_DerivesRole(t *testing.T) {
	tests := []struct {
		accountType entity.AccountType
		want        entity.Role
	}{
		{entity.AccountTypeCustomer, entity.RoleCustomer},
		{"Store_Admin", entity.RoleStoreAdmin},
		{entity.AccountTypeStoreWorker, entity.RoleStoreWorker},
		{entity.AccountTypeDeliveryAgent, entity.RoleDeliveryAgent},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			env := newTestEnv(t)
			srv := env.authService()

			user, err := srv.Signup(context.Background(), signupInput("ann", tt.accountType))
			require.NoError(t, err)
			assert.Equal(t, tt.want, user.Role)
			assert.Equal(t, "ann@example.com", user.Email)
			assert.Equal(t, []string{"+256700000000"}, user.Phones)
			assert.NotEqual(t, "p@ssw0rd", user.PasswordHash)
			assert.True(t, env.hasher.Check("p@ssw0rd", user.PasswordHash))
		})
	}
}

func TestAuthService_Signup_RejectsAccountType(t *testing.T) {
	env := newTestEnv(t)
	srv := env.authService()

	for _, accountType := range []entity.AccountType{"", "admin", "ADMIN", "pirate"} {
		_, err := srv.Signup(context.Background(), signupInput("bob", accountType))
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAccountType, "account type %q", accountType)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	srv := env.authService()
	ctx := context.Background()

	_, err := srv.Signup(ctx, signupInput("cat", entity.AccountTypeCustomer))
	require.NoError(t, err)

	_, err = srv.Signup(ctx, signupInput("cat", entity.AccountTypeCustomer))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.HTTPCode())
}

func TestAuthService_Signup_Avatar(t *testing.T) {
	env := newTestEnv(t)
	srv := env.authService()
	ctx := context.Background()

	avatar := &entity.Image{ID: "avatars/abc.png", URL: "https://cdn.example.com/avatars/abc.png"}
	env.uploader.EXPECT().Upload(mock.Anything, "/tmp/avatar.png", avatarFolder).Return(avatar, nil).Once()

	input := signupInput("dan", entity.AccountTypeCustomer)
	input.AvatarPath = "/tmp/avatar.png"

	user, err := srv.Signup(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, user.Avatar)
	assert.Equal(t, avatar.URL, user.Avatar.URL)

	stored, err := env.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Avatar)
	assert.Equal(t, avatar.ID, stored.Avatar.ID)
}

func TestAuthService_Signup_DiscardsAvatarOnConflict(t *testing.T) {
	env := newTestEnv(t)
	srv := env.authService()
	ctx := context.Background()

	env.seedUser(t, "eve", entity.RoleCustomer)

	avatar := &entity.Image{ID: "avatars/eve.png", URL: "https://cdn.example.com/avatars/eve.png"}
	env.uploader.EXPECT().Upload(mock.Anything, "/tmp/eve.png", avatarFolder).Return(avatar, nil).Once()
	env.uploader.EXPECT().Delete(mock.Anything, avatar.ID).Return(nil).Once()

	input := signupInput("eve", entity.AccountTypeCustomer)
	input.AvatarPath = "/tmp/eve.png"

	_, err := srv.Signup(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Signup_UploadFailure(t *testing.T) {
	env := newTestEnv(t)
	srv := env.authService()

	env.uploader.EXPECT().Upload(mock.Anything, "/tmp/bad.png", avatarFolder).Return(nil, errors.New("bucket unavailable")).Once()

	input := signupInput("fay", entity.AccountTypeCustomer)
	input.AvatarPath = "/tmp/bad.png"

	_, err := srv.Signup(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrMediaUploadFailed)

	_, err = env.users.FindByEmail(context.Background(), "fay@example.com")
	assert.Error(t, err)
}

func TestAuthService_Signin(t *testing.T) {
	env := newTestEnv(t)
	srv := env.authService()
	ctx := context.Background()

	user := env.seedUser(t, "gus", entity.RoleStoreAdmin)

	t.Run("success", func(t *testing.T) {
		out, err := srv.Signin(ctx, &usecase.SigninInput{Email: "GUS@example.com", Password: "secret-gus"})
		require.NoError(t, err)
		assert.NotEmpty(t, out.Token)
		assert.Equal(t, user.ID, out.User.ID)
		assert.True(t, out.ExpiresAt.After(user.CreatedAt))

		claims, err := env.tokens.VerifyToken(out.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "STORE_ADMIN", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := srv.Signin(ctx, &usecase.SigninInput{Email: "gus@example.com", Password: "nope"})
		require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

		var appErr domainerrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, 400, appErr.HTTPCode())
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := srv.Signin(ctx, &usecase.SigninInput{Email: "nobody@example.com", Password: "secret-gus"})
		assert.ErrorIs(t, err, domainerrors.ErrEmailNotFound)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	srv := env.authService()
	ctx := context.Background()

	user := env.seedUser(t, "hal", entity.RoleCustomer)
	out, err := srv.Signin(ctx, &usecase.SigninInput{Email: "hal@example.com", Password: "secret-hal"})
	require.NoError(t, err)

	got, err := srv.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = srv.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	_, err = env.users.Delete(ctx, user.ID)
	require.NoError(t, err)

	_, err = srv.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_CurrentUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService().CurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
