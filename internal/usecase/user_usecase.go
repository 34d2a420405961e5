package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

// UserUsecase is the operator-facing user administration.
type UserUsecase interface {
	ListUsers(ctx context.Context, plan *query.Plan) (*query.Page[*entity.User], error)
	DeleteUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAllUsers(ctx context.Context) (int64, error)

	// CreateAdmin creates an ADMIN account. Only the operator CLI calls it.
	CreateAdmin(ctx context.Context, input *NewUserInput) (*entity.User, error)
}
