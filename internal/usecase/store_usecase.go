package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// CreateStoreInput defines the data required to open a store.
type CreateStoreInput struct {
	OwnerID         uuid.UUID
	Name            string
	Slug            string
	Email           string
	Description     string
	Phones          []string
	Website         string
	AccountNumber   string
	LicenseNumber   string
	Landmark        string
	PhysicalAddress string
	Address         entity.StoreAddress
	Location        *orb.Point
	LiveTracking    bool

	// CoverImagePath is a staged local file, published before the store is saved.
	CoverImagePath string
}

// UpdateStoreInput is a partial patch; nil fields are left unchanged.
type UpdateStoreInput struct {
	Name            *string
	Slug            *string
	Email           *string
	Description     *string
	Phones          []string
	Website         *string
	AccountNumber   *string
	LicenseNumber   *string
	Landmark        *string
	PhysicalAddress *string
	Address         *entity.StoreAddress
	LiveTracking    *bool
	Status          *entity.StoreStatus
}

// NearbyInput is a radius search around a point. Distance is in miles.
type NearbyInput struct {
	Lat      float64
	Lng      float64
	Distance float64
}

// NearbyStore is a store with its distance from the search point in miles.
type NearbyStore struct {
	Store    *entity.Store
	Distance float64
}

// StoreDetail is a store with, on request, its products.
type StoreDetail struct {
	Store     *entity.Store
	Inventory []*entity.Product
}

// AddWorkerInput creates a worker account and attaches it to a store.
type AddWorkerInput struct {
	StoreID uuid.UUID
	Worker  NewUserInput
}

// AddWorkerOutput returns the store after the link and the new worker.
type AddWorkerOutput struct {
	Store  *entity.Store
	Worker *entity.User
}

// StoreUsecase defines store management and discovery.
type StoreUsecase interface {
	CreateStore(ctx context.Context, input *CreateStoreInput) (*entity.Store, error)
	GetStore(ctx context.Context, id uuid.UUID, withInventory bool) (*StoreDetail, error)
	ListStores(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Store], error)
	SearchStores(ctx context.Context, q string, plan *query.Plan) (*query.Page[*entity.Store], error)
	NearbyStores(ctx context.Context, input NearbyInput, plan *query.Plan) (*query.Page[*NearbyStore], error)
	RecommendedStores(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Store], error)
	UpdateStore(ctx context.Context, id uuid.UUID, input *UpdateStoreInput) (*entity.Store, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, location orb.Point) (*entity.Store, error)
	DeleteStore(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	AddWorker(ctx context.Context, input *AddWorkerInput) (*AddWorkerOutput, error)

	// SearchInventory matches q against the products of one store.
	SearchInventory(ctx context.Context, storeID uuid.UUID, q string, plan *query.Plan) (*query.Page[*entity.Product], error)

	// QRCode renders the store's QR code as PNG.
	QRCode(ctx context.Context, id uuid.UUID) ([]byte, error)
}
