// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user. The password must already be hashed.
	Create(ctx context.Context, user *entity.User) error

	// List returns one page of users matching the plan and the filtered total.
	List(ctx context.Context, plan *query.Plan) ([]*entity.User, int64, error)

	// Delete removes a user and returns the deleted snapshot.
	Delete(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// DeleteAll removes every user and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
