package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderEventLogModel mirrors the 'order_event_logs' table. Rows outlive the
// order they describe, so there is no foreign key.
type OrderEventLogModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MessageID  string          `gorm:"type:varchar(128);uniqueIndex;not null"`
	Type       string          `gorm:"type:varchar(32);not null"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID       `gorm:"type:uuid"`
	StoreID    uuid.UUID       `gorm:"type:uuid;index"`
	Status     string          `gorm:"type:varchar(16)"`
	Total      decimal.Decimal `gorm:"type:numeric(18,4)"`
	Currency   string          `gorm:"type:varchar(8)"`
	RequestID  string          `gorm:"type:varchar(128)"`
	OccurredAt time.Time       `gorm:"index"`
	ReceivedAt time.Time       `gorm:"autoCreateTime"`
}

// TableName explicitly sets the table name for GORM.
func (OrderEventLogModel) TableName() string {
	return "order_event_logs"
}

// BeforeCreate assigns the primary key.
func (m *OrderEventLogModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = newID()
	}

	return nil
}
