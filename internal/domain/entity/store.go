package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// StoreStatus is the operating state of a store.
type StoreStatus string

const (
	StoreStatusActive    StoreStatus = "ACTIVE"
	StoreStatusSuspended StoreStatus = "SUSPENDED"
)

// IsValid checks if the StoreStatus is a valid value.
func (s StoreStatus) IsValid() bool {
	return s == StoreStatusActive || s == StoreStatusSuspended
}

// StoreAddress is the postal address of a store.
type StoreAddress struct {
	State           string
	City            string
	Pincode         string
	Street          string
	ApartmentNumber string
	Landmark        string
}

// Store is a seller on the marketplace.
type Store struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID // Must be a STORE_ADMIN when the store is created.
	Name            string
	Slug            string
	Email           string
	Description     string
	Phones          []string
	Website         string
	CoverImage      *Image
	AccountNumber   string
	LicenseNumber   string
	Landmark        string
	PhysicalAddress string
	Address         StoreAddress
	Location        orb.Point // [lng, lat]
	LiveTracking    bool
	AverageRating   float64
	Status          StoreStatus
	WorkerIDs       []uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
