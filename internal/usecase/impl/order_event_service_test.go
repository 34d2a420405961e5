package impl

import (
	"context"
	"testing"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/testutil/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderEventService(t *testing.T) *orderEventService {
	t.Helper()

	return NewOrderEventService(OrderEventServiceParams{
		EventRepo: postgres.NewOrderEventRepository(testdb.New(t)),
		Logger:    newDiscardLogger(),
	}).(*orderEventService)
}

func TestOrderEventService_RecordEvent(t *testing.T) {
	ctx := context.Background()
	srv := newOrderEventService(t)
	orderID := uuid.New()

	event := &service.OrderEvent{
		Type:       service.EventOrderPlaced,
		OrderID:    orderID.String(),
		UserID:     uuid.NewString(),
		StoreID:    uuid.NewString(),
		Status:     "PENDING",
		Total:      "40",
		Currency:   "UGX",
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, srv.RecordEvent(ctx, "m-1", event))
	require.NoError(t, srv.RecordEvent(ctx, "m-1", event), "redelivery is accepted")

	logs, err := srv.ListOrderEvents(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "40", logs[0].Total.String())
	assert.Equal(t, "m-1", logs[0].MessageID)
}

func TestOrderEventService_RequestIDFallsBackToContext(t *testing.T) {
	srv := newOrderEventService(t)
	ctx := deliverycontext.WithRequestID(context.Background(), "req-ctx")

	withoutID := uuid.New()
	require.NoError(t, srv.RecordEvent(ctx, "m-a", &service.OrderEvent{Type: service.EventOrderDeleted, OrderID: withoutID.String()}))
	withID := uuid.New()
	require.NoError(t, srv.RecordEvent(ctx, "m-b", &service.OrderEvent{Type: service.EventOrderDeleted, OrderID: withID.String(), RequestID: "req-event"}))

	logs, err := srv.ListOrderEvents(ctx, withoutID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-ctx", logs[0].RequestID)

	logs, err = srv.ListOrderEvents(ctx, withID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-event", logs[0].RequestID)
}

func TestOrderEventService_RejectsMalformedEvents(t *testing.T) {
	srv := newOrderEventService(t)

	tests := []struct {
		name      string
		messageID string
		event     service.OrderEvent
	}{
		{name: "missing message id", event: service.OrderEvent{Type: service.EventOrderPlaced, OrderID: uuid.NewString()}},
		{name: "unknown type", messageID: "m", event: service.OrderEvent{Type: "order.lost", OrderID: uuid.NewString()}},
		{name: "bad order id", messageID: "m", event: service.OrderEvent{Type: service.EventOrderDeleted, OrderID: "nope"}},
		{name: "bad total", messageID: "m", event: service.OrderEvent{Type: service.EventOrderPlaced, OrderID: uuid.NewString(), Total: "forty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := srv.RecordEvent(context.Background(), tt.messageID, &tt.event)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}
