package postgres_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/testutil/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEventRepository_RecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	events := postgres.NewOrderEventRepository(testdb.New(t))

	orderID := uuid.New()
	placed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := &entity.OrderEventLog{
		MessageID:  "msg-1",
		Type:       "order.placed",
		OrderID:    orderID,
		Status:     entity.OrderStatusPending,
		Total:      decimal.NewFromInt(40),
		Currency:   "UGX",
		OccurredAt: placed,
	}
	written, err := events.Record(ctx, first)
	require.NoError(t, err)
	assert.True(t, written)
	assert.NotEqual(t, uuid.Nil, first.ID)

	written, err = events.Record(ctx, &entity.OrderEventLog{MessageID: "msg-1", Type: "order.placed", OrderID: orderID, OccurredAt: placed})
	require.NoError(t, err)
	assert.False(t, written)

	_, err = events.Record(ctx, &entity.OrderEventLog{
		MessageID:  "msg-2",
		Type:       "order.status_changed",
		OrderID:    orderID,
		Status:     entity.OrderStatusProcessing,
		OccurredAt: placed.Add(time.Minute),
	})
	require.NoError(t, err)
	_, err = events.Record(ctx, &entity.OrderEventLog{MessageID: "other", Type: "order.placed", OrderID: uuid.New(), OccurredAt: placed})
	require.NoError(t, err)

	logs, err := events.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "order.placed", logs[0].Type)
	assert.True(t, decimal.NewFromInt(40).Equal(logs[0].Total))
	assert.Equal(t, entity.OrderStatusProcessing, logs[1].Status)
}
