package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs returns the products that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)

	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error

	// ReplaceCategories sets the product's category links to exactly ids.
	ReplaceCategories(ctx context.Context, productID uuid.UUID, ids []uuid.UUID) error

	List(ctx context.Context, plan *query.Plan) ([]*entity.Product, int64, error)

	// Search matches q as a case-insensitive substring of name, tradename or description.
	Search(ctx context.Context, q string, plan *query.Plan) ([]*entity.Product, int64, error)

	Delete(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}
