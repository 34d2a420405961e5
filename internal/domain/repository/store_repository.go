package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ErrStoreNotFound is returned when a store does not exist.
var ErrStoreNotFound = errors.New("store not found")

// ErrWorkerAlreadyLinked is returned when a user is already a worker of the store.
var ErrWorkerAlreadyLinked = errors.New("worker already linked to store")

// StoreRepository defines persistence operations for stores.
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	Create(ctx context.Context, store *entity.Store) error
	Update(ctx context.Context, store *entity.Store) error
	List(ctx context.Context, plan *query.Plan) ([]*entity.Store, int64, error)

	// Search matches q as a case-insensitive substring of the store's descriptive text.
	Search(ctx context.Context, q string, plan *query.Plan) ([]*entity.Store, int64, error)

	// FindWithinBound returns every store whose location lies inside the bound
	// and matches the plan's filters, in the plan's order. Paging is left to the caller.
	FindWithinBound(ctx context.Context, bound orb.Bound, plan *query.Plan) ([]*entity.Store, error)

	// Recommended returns one page of active stores, best rated first.
	Recommended(ctx context.Context, plan *query.Plan) ([]*entity.Store, int64, error)

	// AddWorker links a user to a store as a worker.
	AddWorker(ctx context.Context, storeID, userID uuid.UUID) error

	// Delete removes a store and its worker links. Products are left in place.
	Delete(ctx context.Context, id uuid.UUID) (*entity.Store, error)
}
