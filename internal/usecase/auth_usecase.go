// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// NewUserInput carries the fields of a user account being created. The role is
// never part of the input; it is derived from AccountType.
type NewUserInput struct {
	AccountType entity.AccountType
	Email       string
	Username    string
	Password    string
	FirstName   string
	LastName    string
	Phones      []string
	City        string

	// AvatarPath is a staged local file, published before the user is saved.
	AvatarPath string
}

// SigninInput defines the data required for a user to sign in.
type SigninInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// SigninOutput returns the issued access token.
type SigninOutput struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// AuthUsecase covers signup, signin and resolving the caller of a request.
type AuthUsecase interface {
	// Signup creates a user through the public signup. Admin accounts are refused.
	Signup(ctx context.Context, input *NewUserInput) (*entity.User, error)

	Signin(ctx context.Context, input *SigninInput) (*SigninOutput, error)

	// Authenticate verifies a bearer token and loads its user.
	Authenticate(ctx context.Context, token string) (*entity.User, error)

	CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
