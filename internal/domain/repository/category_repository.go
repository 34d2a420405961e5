package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

// ErrCategoryNotFound is returned when a category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByIDs returns the categories that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error)

	// Children returns the direct subcategories of a category.
	Children(ctx context.Context, parentID uuid.UUID) ([]*entity.Category, error)

	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, plan *query.Plan) ([]*entity.Category, int64, error)

	// Delete removes a category and its product links.
	Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}
