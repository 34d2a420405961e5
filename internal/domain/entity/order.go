package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
	OrderStatusRejected   OrderStatus = "REJECTED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:      {OrderStatusPending},
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCanceled, OrderStatusRejected},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCanceled, OrderStatusRejected},
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusProcessing,
		OrderStatusCompleted, OrderStatusCanceled, OrderStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Position  int
	Product   *Product // Populated on detail reads.
	CreatedAt time.Time
}

// Order is a purchase placed by a user at a store. Total is a snapshot taken
// at placement and is not recomputed when prices change.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	StoreID         uuid.UUID
	Items           []*OrderItem
	Total           decimal.Decimal
	Currency        string
	Status          OrderStatus
	ShippingAddress string
	PaymentMode     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LineTotal is quantity × actual price of a resolved product.
func LineTotal(p *Product, quantity int) decimal.Decimal {
	return p.Pricing.ActualPrice().Mul(decimal.NewFromInt(int64(quantity)))
}
