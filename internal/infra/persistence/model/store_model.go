package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreModel mirrors the 'stores' table. Location is kept as two indexed
// columns so bounding-box prefilters work on any SQL backend.
type StoreModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Name             string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Slug             string    `gorm:"type:varchar(80);index"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description      string    `gorm:"type:varchar(500)"`
	Phones           []string  `gorm:"serializer:json"`
	Website          string    `gorm:"type:varchar(255)"`
	CoverImageID     string    `gorm:"type:varchar(255)"`
	CoverImageURL    string    `gorm:"type:text"`
	AccountNumber    string    `gorm:"type:varchar(64)"`
	LicenseNumber    string    `gorm:"type:varchar(64)"`
	Landmark         string    `gorm:"type:varchar(255)"`
	PhysicalAddress  string    `gorm:"type:varchar(255)"`
	AddressState     string    `gorm:"type:varchar(100)"`
	AddressCity      string    `gorm:"type:varchar(100)"`
	AddressPincode   string    `gorm:"type:varchar(20)"`
	AddressStreet    string    `gorm:"type:varchar(255)"`
	AddressApartment string    `gorm:"type:varchar(64)"`
	AddressLandmark  string    `gorm:"type:varchar(255)"`
	Longitude        float64   `gorm:"index:idx_stores_location"`
	Latitude         float64   `gorm:"index:idx_stores_location"`
	LiveTracking     bool
	AverageRating    float64
	Status           string    `gorm:"type:varchar(16);index;not null"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time

	Workers []StoreWorkerModel `gorm:"foreignKey:StoreID"`
}

// TableName explicitly sets the table name for GORM.
func (StoreModel) TableName() string {
	return "stores"
}

// BeforeCreate assigns the primary key.
func (m *StoreModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = newID()
	}

	return nil
}

// StoreWorkerModel links a user to the store they work for.
type StoreWorkerModel struct {
	StoreID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (StoreWorkerModel) TableName() string {
	return "store_workers"
}
