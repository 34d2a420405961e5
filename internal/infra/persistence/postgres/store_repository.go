package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storeRepository implements the repository.StoreRepository interface.
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

func preloadWorkers(db *gorm.DB) *gorm.DB {
	return db.Preload("Workers", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	})
}

// FindByID retrieves a store with its worker links.
func (repo *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var storeM model.StoreModel
	if err := preloadWorkers(repo.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&storeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	return toStoreDomain(&storeM), nil
}

// Create persists a new store.
func (repo *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)

	if err := repo.db.WithContext(ctx).Omit("Workers").Create(storeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrStoreAlreadyExists.WrapMessage("store name or email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required store information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create store")
	}

	store.ID = storeM.ID
	store.CreatedAt = storeM.CreatedAt
	store.UpdatedAt = storeM.UpdatedAt

	return nil
}

// Update saves every column of the store. Worker links are managed by AddWorker.
func (repo *storeRepository) Update(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)

	result := repo.db.WithContext(ctx).
		Model(&model.StoreModel{}).
		Where("id = ?", storeM.ID).
		Select("*").
		Omit("id", "created_at", "Workers").
		Updates(storeM)
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrStoreAlreadyExists.WrapMessage("store name or email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update store")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStoreNotFound
	}

	return nil
}

// List returns one page of stores and the filtered total.
func (repo *storeRepository) List(ctx context.Context, plan *query.Plan) ([]*entity.Store, int64, error) {
	return repo.list(ctx, plan, listScopes{})
}

// Search matches q against the store's descriptive columns.
func (repo *storeRepository) Search(ctx context.Context, q string, plan *query.Plan) ([]*entity.Store, int64, error) {
	return repo.list(ctx, plan, listScopes{
		where: []scope{containsScope(q, "name", "description", "physical_address", "landmark")},
	})
}

func (repo *storeRepository) list(ctx context.Context, plan *query.Plan, scopes listScopes) ([]*entity.Store, int64, error) {
	scopes.find = append(scopes.find, preloadWorkers)

	rows, total, err := listModels[model.StoreModel](ctx, repo.db, plan, scopes)
	if err != nil {
		return nil, 0, err
	}

	return toStoresDomain(rows), total, nil
}

// FindWithinBound returns stores located inside the bound that match the plan's filters.
func (repo *storeRepository) FindWithinBound(ctx context.Context, bound orb.Bound, plan *query.Plan) ([]*entity.Store, error) {
	stmt := preloadWorkers(repo.db.WithContext(ctx)).
		Where("longitude BETWEEN ? AND ?", bound.Min.Lon(), bound.Max.Lon()).
		Where("latitude BETWEEN ? AND ?", bound.Min.Lat(), bound.Max.Lat())
	if plan != nil {
		stmt = applySort(applyFilters(stmt, plan.Filters), plan.Sort)
	}

	var rows []*model.StoreModel
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find stores in bound")
	}

	return toStoresDomain(rows), nil
}

// Recommended pages active stores by rating. The plan's sort breaks rating ties.
func (repo *storeRepository) Recommended(ctx context.Context, plan *query.Plan) ([]*entity.Store, int64, error) {
	return repo.list(ctx, plan, listScopes{
		where: []scope{func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", string(entity.StoreStatusActive))
		}},
		find: []scope{func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "average_rating"}, Desc: true})
		}},
	})
}

// AddWorker links a user to the store.
func (repo *storeRepository) AddWorker(ctx context.Context, storeID, userID uuid.UUID) error {
	link := &model.StoreWorkerModel{StoreID: storeID, UserID: userID}
	if err := repo.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrWorkerAlreadyLinked
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add store worker")
	}

	return nil
}

// Delete removes the store and its worker links. Products keep their store reference.
func (repo *storeRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	store, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	db := repo.db.WithContext(ctx)
	if err := db.Where("store_id = ?", id).Delete(&model.StoreWorkerModel{}).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to delete store workers")
	}
	if err := db.Where("id = ?", id).Delete(&model.StoreModel{}).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to delete store")
	}

	return store, nil
}

// --- Mapper Functions ---

func toStoresDomain(rows []*model.StoreModel) []*entity.Store {
	stores := make([]*entity.Store, len(rows))
	for i, row := range rows {
		stores[i] = toStoreDomain(row)
	}

	return stores
}

func toStoreDomain(data *model.StoreModel) *entity.Store {
	if data == nil {
		return nil
	}

	workers := make([]uuid.UUID, len(data.Workers))
	for i, w := range data.Workers {
		workers[i] = w.UserID
	}

	return &entity.Store{
		ID:              data.ID,
		OwnerID:         data.OwnerID,
		Name:            data.Name,
		Slug:            data.Slug,
		Email:           data.Email,
		Description:     data.Description,
		Phones:          data.Phones,
		Website:         data.Website,
		CoverImage:      toImage(data.CoverImageID, data.CoverImageURL),
		AccountNumber:   data.AccountNumber,
		LicenseNumber:   data.LicenseNumber,
		Landmark:        data.Landmark,
		PhysicalAddress: data.PhysicalAddress,
		Address: entity.StoreAddress{
			State:           data.AddressState,
			City:            data.AddressCity,
			Pincode:         data.AddressPincode,
			Street:          data.AddressStreet,
			ApartmentNumber: data.AddressApartment,
			Landmark:        data.AddressLandmark,
		},
		Location:      orb.Point{data.Longitude, data.Latitude},
		LiveTracking:  data.LiveTracking,
		AverageRating: data.AverageRating,
		Status:        entity.StoreStatus(data.Status),
		WorkerIDs:     workers,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromStoreDomain(data *entity.Store) *model.StoreModel {
	if data == nil {
		return nil
	}

	storeM := &model.StoreModel{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		Name:             data.Name,
		Slug:             data.Slug,
		Email:            data.Email,
		Description:      data.Description,
		Phones:           data.Phones,
		Website:          data.Website,
		AccountNumber:    data.AccountNumber,
		LicenseNumber:    data.LicenseNumber,
		Landmark:         data.Landmark,
		PhysicalAddress:  data.PhysicalAddress,
		AddressState:     data.Address.State,
		AddressCity:      data.Address.City,
		AddressPincode:   data.Address.Pincode,
		AddressStreet:    data.Address.Street,
		AddressApartment: data.Address.ApartmentNumber,
		AddressLandmark:  data.Address.Landmark,
		Longitude:        data.Location.Lon(),
		Latitude:         data.Location.Lat(),
		LiveTracking:     data.LiveTracking,
		AverageRating:    data.AverageRating,
		Status:           string(data.Status),
		CreatedAt:        data.CreatedAt,
	}
	if data.CoverImage != nil {
		storeM.CoverImageID = data.CoverImage.ID
		storeM.CoverImageURL = data.CoverImage.URL
	}

	return storeM
}
