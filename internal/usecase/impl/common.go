// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// notFound replaces a repository sentinel with the matching client error naming the id.
func notFound(err, sentinel error, appErr *domainerrors.BaseError, id uuid.UUID) error {
	if errors.Is(err, sentinel) {
		return appErr.WithDetailsf("%s", id)
	}

	return err
}

// uploadImage publishes a staged file. An empty path means no image.
func uploadImage(ctx context.Context, uploader service.MediaUploader, localPath, folder string) (*entity.Image, error) {
	if localPath == "" {
		return nil, nil
	}

	img, err := uploader.Upload(ctx, localPath, folder)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrMediaUploadFailed, err.Error())
	}

	return img, nil
}

// discardImages removes published images after a failed write. Failures are only logged.
func discardImages(ctx context.Context, uploader service.MediaUploader, logger *slog.Logger, images ...*entity.Image) {
	for _, img := range images {
		if img == nil {
			continue
		}
		if err := uploader.Delete(ctx, img.ID); err != nil {
			logger.Warn("Failed to remove orphaned image", slog.String("image_id", img.ID), slog.Any("error", err))
		}
	}
}

// storeScopedPlan lists the products of one store on a single page.
func storeScopedPlan(storeID uuid.UUID, limit int) *query.Plan {
	plan := &query.Plan{Page: 1, Limit: limit, Sort: query.Products.DefaultSort()}
	if field, ok := query.Products.Field("store"); ok {
		plan.Where(field, storeID)
	}

	return plan
}

// publishOrderEvent sends an order event. Failures are logged and never reach the caller.
func publishOrderEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, eventType string, order *entity.Order) {
	event := &service.OrderEvent{
		Type:       eventType,
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		StoreID:    order.StoreID.String(),
		Status:     string(order.Status),
		Total:      order.Total.String(),
		Currency:   order.Currency,
		OccurredAt: time.Now().UTC(),
	}

	if err := publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish order event",
			slog.String("type", eventType),
			slog.String("order_id", event.OrderID),
			slog.Any("error", err),
		)
	}
}
