package handler

import (
	"log/slog"
	"net/http"

	"storefront/config"
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC      usecase.OrderUsecase
	OrderEventUC usecase.OrderEventUsecase
	Config       *config.Config
	Logger       *slog.Logger
}

type OrderHandler struct {
	orderUC      usecase.OrderUsecase
	orderEventUC usecase.OrderEventUsecase
	planner      planner
	logger       *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC:      params.OrderUC,
		orderEventUC: params.OrderEventUC,
		planner:      newPlanner(params.Config),
		logger:       params.Logger,
	}
}

type OrderItemRequest struct {
	Item     string `json:"item" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// CartItemRequest is the storefront cart line shape, {"id", "quantity"}.
type CartItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderRequest places an order for the caller. The store may also come
// from the ?store= query, which takes precedence over the body field.
type PlaceOrderRequest struct {
	Store           string             `json:"store"`
	OrderItems      []OrderItemRequest `json:"order_items" validate:"dive"`
	Items           []CartItemRequest  `json:"items" validate:"dive"`
	ShippingAddress string             `json:"shipping_address" validate:"max=512"`
	PaymentMode     string             `json:"payment_mode" validate:"max=32"`
}

type UpdateOrderRequest struct {
	ShippingAddress *string `json:"shipping_address" validate:"omitempty,max=512"`
	PaymentMode     *string `json:"payment_mode" validate:"omitempty,max=32"`
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	plan, err := h.planner.parse(c, query.Orders)
	if err != nil {
		return err
	}

	page, err := h.orderUC.ListOrders(c.Request().Context(), plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newOrder)
}

// PlaceOrder handles POST /orders. A missing store or empty item list is
// reported by the order service so the error codes stay specific.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := &usecase.PlaceOrderInput{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		PaymentMode:     req.PaymentMode,
		Items:           make([]usecase.OrderLine, 0, len(req.OrderItems)+len(req.Items)),
	}
	store := req.Store
	if q := c.QueryParam("store"); q != "" {
		store = q
	}
	if store != "" {
		storeID, err := parseUUID(store, "store")
		if err != nil {
			return err
		}
		input.StoreID = storeID
	}
	for _, item := range req.OrderItems {
		productID, err := parseUUID(item.Item, "order_items.item")
		if err != nil {
			return err
		}
		input.Items = append(input.Items, usecase.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}
	for _, item := range req.Items {
		productID, err := parseUUID(item.ID, "items.id")
		if err != nil {
			return err
		}
		input.Items = append(input.Items, usecase.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}

	order, err := h.orderUC.PlaceOrder(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusCreated, "Order placed", newOrder(order))
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	detail, err := h.orderUC.GetOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, newOrderDetail(detail))
}

// UpdateOrder handles PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateOrder(c.Request().Context(), id, &usecase.UpdateOrderInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMode:     req.PaymentMode,
	})
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Order updated", newOrder(order))
}

// UpdateStatus handles PUT /orders/:id/status_update?status=<s>
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	if status == "" {
		return domainerrors.ErrValidationFailed.WithDetails("status is required")
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), id, entity.OrderStatus(status))
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Order status updated", newOrder(order))
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.orderUC.DeleteOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Order deleted", newOrder(order))
}

// ListEvents handles GET /orders/:id/events, the trail recorded by the event worker.
func (h *OrderHandler) ListEvents(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	logs, err := h.orderEventUC.ListOrderEvents(c.Request().Context(), id)
	if err != nil {
		return err
	}

	out := make([]OrderEventResponse, len(logs))
	for i, l := range logs {
		out[i] = newOrderEvent(l)
	}

	return response.Success(c, http.StatusOK, out)
}
