package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
)

// OrderEventUsecase keeps the audit trail of order events delivered to the worker.
type OrderEventUsecase interface {
	// RecordEvent stores a delivered event. Redelivery of the same message id is
	// a no-op. Events that cannot name an order are rejected as invalid.
	RecordEvent(ctx context.Context, messageID string, event *service.OrderEvent) error

	// ListOrderEvents returns the trail of one order, oldest first.
	ListOrderEvents(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderEventLog, error)
}
