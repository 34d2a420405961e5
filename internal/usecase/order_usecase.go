package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput defines an order placed by the acting user.
type PlaceOrderInput struct {
	UserID          uuid.UUID
	StoreID         uuid.UUID
	Items           []OrderLine
	ShippingAddress string
	PaymentMode     string
}

// UpdateOrderInput edits the delivery details of a pending order.
type UpdateOrderInput struct {
	ShippingAddress *string
	PaymentMode     *string
}

// OrderDetail is an order with its products, buyer and store resolved.
type OrderDetail struct {
	Order *entity.Order
	User  *entity.User
	Store *entity.Store
}

type OrderUsecase interface {
	PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*entity.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	ListOrders(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Order], error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input *UpdateOrderInput) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (*entity.Order, error)

	// DeleteOrder removes the order's items and then the order, in one transaction.
	DeleteOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error)
}
