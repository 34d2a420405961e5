package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderEventRepository stores the order events received by the event worker.
type OrderEventRepository interface {
	// Record inserts the event unless its message id is already stored.
	// It reports whether a row was written.
	Record(ctx context.Context, log *entity.OrderEventLog) (bool, error)

	// ListByOrder returns an order's events, oldest first.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderEventLog, error)
}
