package postgres_test

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/testutil/testdb"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRepository_CreateUniqueAndWorkers(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := postgres.NewUserRepository(db)
	stores := postgres.NewStoreRepository(db)

	owner := seedUser(t, users, "owner", entity.RoleStoreAdmin)
	worker := seedUser(t, users, "worker", entity.RoleStoreWorker)
	store := seedStore(t, stores, owner.ID, "corner", orb.Point{32.5, 0.3})

	err := stores.Create(ctx, &entity.Store{OwnerID: owner.ID, Name: "corner", Email: "x@y.z", Status: entity.StoreStatusActive})
	assert.ErrorIs(t, err, domainerrors.ErrStoreAlreadyExists)

	require.NoError(t, stores.AddWorker(ctx, store.ID, worker.ID))
	assert.ErrorIs(t, stores.AddWorker(ctx, store.ID, worker.ID), repository.ErrWorkerAlreadyLinked)

	loaded, err := stores.FindByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Contains(t, loaded.WorkerIDs, worker.ID)
	assert.InDelta(t, 32.5, loaded.Location.Lon(), 1e-9)
	assert.InDelta(t, 0.3, loaded.Location.Lat(), 1e-9)

	listed, total, err := stores.List(ctx, mustPlan(t, "workers="+worker.ID.String(), query.Stores))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, []uuid.UUID{worker.ID}, listed[0].WorkerIDs)
}

func TestStoreRepository_GeoAndRecommended(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	stores := postgres.NewStoreRepository(db)
	owner := seedUser(t, postgres.NewUserRepository(db), "owner", entity.RoleStoreAdmin)

	kampala := seedStore(t, stores, owner.ID, "kampala", orb.Point{32.58, 0.35})
	entebbe := seedStore(t, stores, owner.ID, "entebbe", orb.Point{32.46, 0.05})
	seedStore(t, stores, owner.ID, "nairobi", orb.Point{36.82, -1.29})

	eastAfrica := orb.Bound{Min: orb.Point{32.0, -0.5}, Max: orb.Point{33.0, 1.0}}
	inBound, err := stores.FindWithinBound(ctx, eastAfrica, nil)
	require.NoError(t, err)
	assert.Len(t, inBound, 2)

	inBound, err = stores.FindWithinBound(ctx, eastAfrica, mustPlan(t, "name=entebbe", query.Stores))
	require.NoError(t, err)
	require.Len(t, inBound, 1)
	assert.Equal(t, entebbe.ID, inBound[0].ID)

	kampala.AverageRating = 4.5
	require.NoError(t, stores.Update(ctx, kampala))
	entebbe.Status = entity.StoreStatusSuspended
	entebbe.AverageRating = 5
	require.NoError(t, stores.Update(ctx, entebbe))

	recommended, total, err := stores.Recommended(ctx, mustPlan(t, "", query.Stores))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, recommended, 2)
	assert.Equal(t, "kampala", recommended[0].Name)
	for _, s := range recommended {
		assert.Equal(t, entity.StoreStatusActive, s.Status)
	}

	recommended, total, err = stores.Recommended(ctx, mustPlan(t, "page=2&limit=1", query.Stores))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, recommended, 1)
	assert.Equal(t, "nairobi", recommended[0].Name)

	found, total, err := stores.Search(ctx, "NAIRO", mustPlan(t, "", query.Stores))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "nairobi", found[0].Name)
}

func TestStoreRepository_DeleteKeepsProducts(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	stores := postgres.NewStoreRepository(db)
	products := postgres.NewProductRepository(db)
	owner := seedUser(t, postgres.NewUserRepository(db), "owner", entity.RoleStoreAdmin)

	store := seedStore(t, stores, owner.ID, "closing", orb.Point{})
	p := seedProduct(t, products, store.ID, "left behind", 5)

	deleted, err := stores.Delete(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "closing", deleted.Name)

	_, err = stores.FindByID(ctx, store.ID)
	assert.ErrorIs(t, err, repository.ErrStoreNotFound)

	_, err = products.FindByID(ctx, p.ID)
	assert.NoError(t, err)
}
