package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type orderEventService struct {
	eventRepo repository.OrderEventRepository
	logger    *slog.Logger
}

// OrderEventServiceParams holds dependencies for OrderEventService, injected by Fx.
type OrderEventServiceParams struct {
	fx.In

	EventRepo repository.OrderEventRepository
	Logger    *slog.Logger
}

// NewOrderEventService is the constructor for orderEventService.
func NewOrderEventService(params OrderEventServiceParams) usecase.OrderEventUsecase {
	return &orderEventService{
		eventRepo: params.EventRepo,
		logger:    params.Logger,
	}
}

func (srv *orderEventService) RecordEvent(ctx context.Context, messageID string, event *service.OrderEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, srv.logger)

	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return domainerrors.ErrValidationFailed.WithDetails("message id is required")
	}

	switch event.Type {
	case service.EventOrderPlaced, service.EventOrderStatusChanged, service.EventOrderDeleted:
	default:
		return domainerrors.ErrValidationFailed.WithDetailsf("unknown event type %q", event.Type)
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetailsf("order_id %q is not a valid id", event.OrderID)
	}

	log := &entity.OrderEventLog{
		MessageID:  messageID,
		Type:       event.Type,
		OrderID:    orderID,
		UserID:     optionalID(event.UserID),
		StoreID:    optionalID(event.StoreID),
		Status:     entity.OrderStatus(event.Status),
		Currency:   event.Currency,
		RequestID:  event.RequestID,
		OccurredAt: event.OccurredAt,
	}
	if log.RequestID == "" {
		log.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}
	if log.OccurredAt.IsZero() {
		log.OccurredAt = time.Now().UTC()
	}
	if event.Total != "" {
		if log.Total, err = decimal.NewFromString(event.Total); err != nil {
			return domainerrors.ErrValidationFailed.WithDetailsf("total %q is not a number", event.Total)
		}
	}

	written, err := srv.eventRepo.Record(ctx, log)
	if err != nil {
		return errors.Wrap(err, "failed to record order event")
	}
	if !written {
		logger.Info("Duplicate order event ignored", slog.String("message_id", messageID))

		return nil
	}

	logger.Info("Order event recorded",
		slog.String("message_id", messageID),
		slog.String("type", event.Type),
		slog.String("order_id", orderID.String()),
	)

	return nil
}

func (srv *orderEventService) ListOrderEvents(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderEventLog, error) {
	logs, err := srv.eventRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order events")
	}

	return logs, nil
}

// optionalID parses an id that events may leave empty.
func optionalID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}

	return id
}
