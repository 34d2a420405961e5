package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

var (
	// ErrOrderNotFound is returned when an order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderItemNotFound is returned when an order item does not exist.
	ErrOrderItemNotFound = errors.New("order item not found")
)

// OrderRepository defines persistence operations for orders and their items.
type OrderRepository interface {
	// FindByID loads an order with its items in position order.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// Create inserts the order row only; items are created separately.
	Create(ctx context.Context, order *entity.Order) error

	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, plan *query.Plan) ([]*entity.Order, int64, error)

	// Delete removes the order row. Items must already be gone.
	Delete(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, item *entity.OrderItem) error
	FindItem(ctx context.Context, id uuid.UUID) (*entity.OrderItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}
