package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderEventLog is one order event as received by the event worker. MessageID
// is the broker's id and makes redelivery idempotent.
type OrderEventLog struct {
	ID         uuid.UUID
	MessageID  string
	Type       string
	OrderID    uuid.UUID
	UserID     uuid.UUID
	StoreID    uuid.UUID
	Status     OrderStatus
	Total      decimal.Decimal
	Currency   string
	RequestID  string
	OccurredAt time.Time
	ReceivedAt time.Time
}
