package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager       repository.TransactionManager
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	storeRepo       repository.StoreRepository
	userRepo        repository.UserRepository
	publisher       service.EventPublisher
	defaultCurrency string
	logger          *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	StoreRepo   repository.StoreRepository
	UserRepo    repository.UserRepository
	Publisher   service.EventPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:       params.TxManager,
		orderRepo:       params.OrderRepo,
		productRepo:     params.ProductRepo,
		storeRepo:       params.StoreRepo,
		userRepo:        params.UserRepo,
		publisher:       params.Publisher,
		defaultCurrency: params.Config.Store.DefaultCurrency,
		logger:          params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder validates the request, resolves every product before anything
// is written, then creates the order and its items in one transaction.
func (srv *orderService) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if input.StoreID == uuid.Nil {
		return nil, domainerrors.ErrStoreRequired
	}
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrOrderItemsRequired
	}
	for i, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return nil, domainerrors.ErrValidationFailed.WithDetailsf("order_items[%d]: item is required", i)
		}
		if line.Quantity < 1 {
			return nil, domainerrors.ErrValidationFailed.WithDetailsf("order_items[%d]: quantity must be at least 1", i)
		}
	}

	products, err := srv.resolveProducts(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, line := range input.Items {
		total = total.Add(entity.LineTotal(products[line.ProductID], line.Quantity))
	}

	if _, err := srv.storeRepo.FindByID(ctx, input.StoreID); err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, input.StoreID)
	}

	order := &entity.Order{
		UserID:          input.UserID,
		StoreID:         input.StoreID,
		Total:           total,
		Currency:        srv.orderCurrency(products[input.Items[0].ProductID]),
		Status:          entity.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		PaymentMode:     strings.TrimSpace(input.PaymentMode),
	}

	err = srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		orderRepo := factory.NewOrderRepository()

		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		order.Items = make([]*entity.OrderItem, 0, len(input.Items))
		for i, line := range input.Items {
			item := &entity.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Position:  i,
			}
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return errors.Wrapf(err, "failed to create order item %d", i)
			}
			item.Product = products[line.ProductID]
			order.Items = append(order.Items, item)
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to place order", slog.String("user_id", input.UserID.String()), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.String("order_id", order.ID.String()),
		slog.String("total", order.Total.String()),
		slog.Int("items", len(order.Items)),
	)
	publishOrderEvent(ctx, srv.publisher, srv.log(ctx), service.EventOrderPlaced, order)

	return order, nil
}

// resolveProducts loads every referenced product; the first missing one is reported.
func (srv *orderService) resolveProducts(ctx context.Context, lines []usecase.OrderLine) (map[uuid.UUID]*entity.Product, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	products, err := srv.productRepo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve order products")
	}

	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, domainerrors.ErrProductNotFound.WithDetailsf("%s", id)
		}
	}

	return products, nil
}

func (srv *orderService) orderCurrency(first *entity.Product) string {
	if first != nil && first.Pricing.Currency != "" {
		return first.Pricing.Currency
	}

	return srv.defaultCurrency
}

// GetOrder loads the order with its item products, buyer and store. Records
// deleted since placement are left empty.
func (srv *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*usecase.OrderDetail, error) {
	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound, id)
	}

	ids := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		ids[i] = item.ProductID
	}
	products, err := srv.productRepo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order products")
	}
	for _, item := range order.Items {
		item.Product = products[item.ProductID]
	}

	detail := &usecase.OrderDetail{Order: order}

	detail.User, err = srv.userRepo.FindByID(ctx, order.UserID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to load order user")
	}

	detail.Store, err = srv.storeRepo.FindByID(ctx, order.StoreID)
	if err != nil && !errors.Is(err, repository.ErrStoreNotFound) {
		return nil, errors.Wrap(err, "failed to load order store")
	}

	return detail, nil
}

func (srv *orderService) ListOrders(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Order], error) {
	orders, total, err := srv.orderRepo.List(ctx, plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return query.NewPage(orders, total, plan), nil
}

// UpdateOrder edits shipping details while the order is still pending.
func (srv *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, input *usecase.UpdateOrderInput) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound, id)
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domainerrors.ErrOrderNotEditable.WithDetailsf("order is %s", order.Status)
	}

	if input.ShippingAddress != nil {
		order.ShippingAddress = strings.TrimSpace(*input.ShippingAddress)
	}
	if input.PaymentMode != nil {
		order.PaymentMode = strings.TrimSpace(*input.PaymentMode)
	}

	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, notFound(err, repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound, id)
	}

	return order, nil
}

// UpdateStatus moves the order along the status transition table.
func (srv *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	status = entity.OrderStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetailsf("unknown order status %q", status)
	}

	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound, id)
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetailsf("%s -> %s", order.Status, status)
	}

	previous := order.Status
	order.Status = status
	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, notFound(err, repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound, id)
	}

	srv.log(ctx).Info("Order status changed",
		slog.String("order_id", id.String()),
		slog.String("from", string(previous)),
		slog.String("to", string(status)),
	)
	publishOrderEvent(ctx, srv.publisher, srv.log(ctx), service.EventOrderStatusChanged, order)

	return order, nil
}

// DeleteOrder deletes every item and then the order inside one transaction.
// The first failing item aborts the whole delete.
func (srv *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var deleted *entity.Order
	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		orderRepo := factory.NewOrderRepository()

		order, err := orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := orderRepo.DeleteItem(ctx, item.ID); err != nil {
				return errors.Wrap(domainerrors.ErrCascadeDeleteFailed.WithDetailsf("item %s", item.ID), err.Error())
			}
		}

		if err := orderRepo.Delete(ctx, order.ID); err != nil {
			return err
		}
		deleted = order

		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrOrderNotFound) {
			srv.log(ctx).Error("Failed to delete order", slog.String("order_id", id.String()), slog.Any("error", err))
		}

		return nil, notFound(err, repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound, id)
	}

	srv.log(ctx).Info("Order deleted", slog.String("order_id", id.String()), slog.Int("items", len(deleted.Items)))
	publishOrderEvent(ctx, srv.publisher, srv.log(ctx), service.EventOrderDeleted, deleted)

	return deleted, nil
}
