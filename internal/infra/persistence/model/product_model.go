package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID           uuid.UUID `gorm:"type:uuid;index;not null"`
	Name              string    `gorm:"type:varchar(255);index;not null"`
	Tradename         string    `gorm:"type:varchar(255);not null"`
	CatchPhrase       string    `gorm:"type:varchar(255)"`
	Description       string    `gorm:"type:text"`
	Directions        string    `gorm:"type:text"`
	Prescription      string    `gorm:"type:text"`
	Caution           string    `gorm:"type:text"`
	Manufacturer      string    `gorm:"type:varchar(255)"`
	Tags              []string  `gorm:"serializer:json"`
	PackagingSize     string    `gorm:"type:varchar(64)"`
	PackagingQuantity int
	PackagingWeight   string          `gorm:"type:varchar(64)"`
	Images            []ImageModel    `gorm:"serializer:json"`
	Price             decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Discount          decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	Currency          string          `gorm:"type:varchar(8);not null"`
	Rating            float64
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// BeforeCreate assigns the primary key.
func (m *ProductModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = newID()
	}

	return nil
}

// ProductCategoryModel links a product to one of its categories.
type ProductCategoryModel struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName explicitly sets the table name for GORM.
func (ProductCategoryModel) TableName() string {
	return "product_categories"
}
