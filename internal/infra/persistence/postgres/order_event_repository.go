package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderEventRepository struct {
	db *gorm.DB
}

// NewOrderEventRepository is the constructor for orderEventRepository.
func NewOrderEventRepository(db *gorm.DB) repository.OrderEventRepository {
	return &orderEventRepository{db: db}
}

func (repo *orderEventRepository) Record(ctx context.Context, log *entity.OrderEventLog) (bool, error) {
	logM := &model.OrderEventLogModel{
		ID:         log.ID,
		MessageID:  log.MessageID,
		Type:       log.Type,
		OrderID:    log.OrderID,
		UserID:     log.UserID,
		StoreID:    log.StoreID,
		Status:     string(log.Status),
		Total:      log.Total,
		Currency:   log.Currency,
		RequestID:  log.RequestID,
		OccurredAt: log.OccurredAt,
	}

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "message_id"}}, DoNothing: true}).
		Create(logM)
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to record order event")
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	log.ID = logM.ID
	log.ReceivedAt = logM.ReceivedAt

	return true, nil
}

func (repo *orderEventRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderEventLog, error) {
	var rows []*model.OrderEventLogModel
	if err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("occurred_at ASC, received_at ASC").
		Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list order events")
	}

	logs := make([]*entity.OrderEventLog, len(rows))
	for i, row := range rows {
		logs[i] = &entity.OrderEventLog{
			ID:         row.ID,
			MessageID:  row.MessageID,
			Type:       row.Type,
			OrderID:    row.OrderID,
			UserID:     row.UserID,
			StoreID:    row.StoreID,
			Status:     entity.OrderStatus(row.Status),
			Total:      row.Total,
			Currency:   row.Currency,
			RequestID:  row.RequestID,
			OccurredAt: row.OccurredAt,
			ReceivedAt: row.ReceivedAt,
		}
	}

	return logs, nil
}
