package impl

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const storeFolder = "stores"

// storeService implements the StoreUsecase interface.
type storeService struct {
	txManager   repository.TransactionManager
	storeRepo   repository.StoreRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	uploader    service.MediaUploader
	qrcode      service.QRCodeService
	creator     *userCreator
	maxLimit    int
	logger      *slog.Logger
}

// StoreServiceParams holds dependencies for StoreService, injected by Fx.
type StoreServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	StoreRepo   repository.StoreRepository
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	Hasher      service.PasswordHasher
	Uploader    service.MediaUploader
	QRCode      service.QRCodeService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewStoreService is the constructor for storeService.
func NewStoreService(params StoreServiceParams) usecase.StoreUsecase {
	return &storeService{
		txManager:   params.TxManager,
		storeRepo:   params.StoreRepo,
		userRepo:    params.UserRepo,
		productRepo: params.ProductRepo,
		uploader:    params.Uploader,
		qrcode:      params.QRCode,
		creator:     &userCreator{hasher: params.Hasher, uploader: params.Uploader, logger: params.Logger},
		maxLimit:    params.Config.Query.MaxLimit,
		logger:      params.Logger,
	}
}

func (srv *storeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateStore checks the owner before anything is published or saved: the
// owner must exist and be a store admin.
func (srv *storeService) CreateStore(ctx context.Context, input *usecase.CreateStoreInput) (*entity.Store, error) {
	owner, err := srv.userRepo.FindByID(ctx, input.OwnerID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrStoreOwnerInvalid.WithDetailsf("user %s does not exist", input.OwnerID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load store owner")
	}
	if owner.Role != entity.RoleStoreAdmin {
		return nil, domainerrors.ErrStoreOwnerInvalid.WithDetailsf("user %s has role %s", owner.ID, owner.Role)
	}

	store := &entity.Store{
		OwnerID:         owner.ID,
		Name:            strings.TrimSpace(input.Name),
		Slug:            input.Slug,
		Email:           normalizeEmail(input.Email),
		Description:     input.Description,
		Phones:          compact(input.Phones),
		Website:         input.Website,
		AccountNumber:   input.AccountNumber,
		LicenseNumber:   input.LicenseNumber,
		Landmark:        input.Landmark,
		PhysicalAddress: input.PhysicalAddress,
		Address:         input.Address,
		LiveTracking:    input.LiveTracking,
		Status:          entity.StoreStatusActive,
	}
	if store.Slug == "" {
		store.Slug = entity.Slugify(store.Name)
	}
	if input.Location != nil {
		if !entity.ValidLocation(*input.Location) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("location is out of range")
		}
		store.Location = *input.Location
	}

	cover, err := uploadImage(ctx, srv.uploader, input.CoverImagePath, storeFolder)
	if err != nil {
		return nil, err
	}
	store.CoverImage = cover

	if err := srv.storeRepo.Create(ctx, store); err != nil {
		discardImages(ctx, srv.uploader, srv.log(ctx), cover)

		return nil, err
	}

	srv.log(ctx).Info("Store created", slog.String("store_id", store.ID.String()), slog.String("owner_id", owner.ID.String()))

	return store, nil
}

func (srv *storeService) GetStore(ctx context.Context, id uuid.UUID, withInventory bool) (*usecase.StoreDetail, error) {
	store, err := srv.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, id)
	}

	detail := &usecase.StoreDetail{Store: store}
	if !withInventory {
		return detail, nil
	}

	products, _, err := srv.productRepo.List(ctx, storeScopedPlan(id, srv.maxLimit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load store inventory")
	}
	detail.Inventory = products

	return detail, nil
}

func (srv *storeService) ListStores(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Store], error) {
	stores, total, err := srv.storeRepo.List(ctx, plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return query.NewPage(stores, total, plan), nil
}

func (srv *storeService) SearchStores(ctx context.Context, q string, plan *query.Plan) (*query.Page[*entity.Store], error) {
	stores, total, err := srv.storeRepo.Search(ctx, strings.TrimSpace(q), plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search stores")
	}

	return query.NewPage(stores, total, plan), nil
}

// NearbyStores prefilters by a bounding box and the plan's filters, keeps the
// stores within the great-circle distance, nearest first, and pages the result.
func (srv *storeService) NearbyStores(ctx context.Context, input usecase.NearbyInput, plan *query.Plan) (*query.Page[*usecase.NearbyStore], error) {
	center := orb.Point{input.Lng, input.Lat}
	if !entity.ValidLocation(center) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("lat must be within ±90 and lng within ±180")
	}
	if input.Distance <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("distance must be positive")
	}

	bound := geo.NewBoundAroundPoint(center, input.Distance*entity.MetersPerMile)
	candidates, err := srv.storeRepo.FindWithinBound(ctx, bound, plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find nearby stores")
	}

	nearby := make([]*usecase.NearbyStore, 0, len(candidates))
	for _, store := range candidates {
		d := entity.DistanceMiles(center, store.Location)
		if d <= input.Distance {
			nearby = append(nearby, &usecase.NearbyStore{Store: store, Distance: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].Distance < nearby[j].Distance })

	total := int64(len(nearby))
	start := min(plan.Offset(), len(nearby))
	end := start + min(plan.Limit, len(nearby)-start)

	return query.NewPage(nearby[start:end], total, plan), nil
}

func (srv *storeService) RecommendedStores(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Store], error) {
	stores, total, err := srv.storeRepo.Recommended(ctx, plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load recommended stores")
	}

	return query.NewPage(stores, total, plan), nil
}

func (srv *storeService) UpdateStore(ctx context.Context, id uuid.UUID, input *usecase.UpdateStoreInput) (*entity.Store, error) {
	return srv.update(ctx, id, func(s *entity.Store) error {
		applyString(&s.Name, input.Name)
		applyString(&s.Slug, input.Slug)
		applyString(&s.Description, input.Description)
		applyString(&s.Website, input.Website)
		applyString(&s.AccountNumber, input.AccountNumber)
		applyString(&s.LicenseNumber, input.LicenseNumber)
		applyString(&s.Landmark, input.Landmark)
		applyString(&s.PhysicalAddress, input.PhysicalAddress)
		if input.Email != nil {
			s.Email = normalizeEmail(*input.Email)
		}
		if input.Phones != nil {
			s.Phones = compact(input.Phones)
		}
		if input.Address != nil {
			s.Address = *input.Address
		}
		if input.LiveTracking != nil {
			s.LiveTracking = *input.LiveTracking
		}
		if input.Status != nil {
			if !input.Status.IsValid() {
				return domainerrors.ErrValidationFailed.WithDetailsf("unknown store status %q", *input.Status)
			}
			s.Status = *input.Status
		}

		return nil
	})
}

func (srv *storeService) UpdateLocation(ctx context.Context, id uuid.UUID, location orb.Point) (*entity.Store, error) {
	if !entity.ValidLocation(location) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("location is out of range")
	}

	return srv.update(ctx, id, func(s *entity.Store) error {
		s.Location = location

		return nil
	})
}

// DeleteStore removes the store and its worker links. Its products stay.
func (srv *storeService) DeleteStore(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var deleted *entity.Store
	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		var err error
		deleted, err = factory.NewStoreRepository().Delete(ctx, id)

		return err
	})
	if err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, id)
	}

	discardImages(ctx, srv.uploader, srv.log(ctx), deleted.CoverImage)
	srv.log(ctx).Info("Store deleted", slog.String("store_id", id.String()))

	return deleted, nil
}

// AddWorker creates a STORE_WORKER account and links it to the store in one
// transaction.
func (srv *storeService) AddWorker(ctx context.Context, input *usecase.AddWorkerInput) (*usecase.AddWorkerOutput, error) {
	workerInput := input.Worker
	if workerInput.AccountType == "" {
		workerInput.AccountType = entity.AccountTypeStoreWorker
	}
	if workerInput.AccountType.Normalize() != entity.AccountTypeStoreWorker {
		return nil, domainerrors.ErrInvalidAccountType.WithDetailsf("workers must use account type %s", entity.AccountTypeStoreWorker)
	}

	var out usecase.AddWorkerOutput
	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		storeRepo := factory.NewStoreRepository()

		store, err := storeRepo.FindByID(ctx, input.StoreID)
		if err != nil {
			return err
		}

		worker, err := srv.creator.create(ctx, factory.NewUserRepository(), &workerInput)
		if err != nil {
			return err
		}
		out.Worker = worker

		if err := storeRepo.AddWorker(ctx, store.ID, worker.ID); err != nil {
			if errors.Is(err, repository.ErrWorkerAlreadyLinked) {
				return domainerrors.ErrWorkerAlreadyExists.WithDetailsf("worker %s", worker.ID)
			}

			return err
		}

		out.Store, err = storeRepo.FindByID(ctx, store.ID)

		return err
	})
	if err != nil {
		if out.Worker != nil {
			discardImages(ctx, srv.uploader, srv.log(ctx), out.Worker.Avatar)
		}

		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, input.StoreID)
	}

	srv.log(ctx).Info("Worker added to store",
		slog.String("store_id", input.StoreID.String()),
		slog.String("worker_id", out.Worker.ID.String()),
	)

	return &out, nil
}

func (srv *storeService) SearchInventory(ctx context.Context, storeID uuid.UUID, q string, plan *query.Plan) (*query.Page[*entity.Product], error) {
	if _, err := srv.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, storeID)
	}

	if field, ok := query.Products.Field("store"); ok {
		plan.Where(field, storeID)
	}

	products, total, err := srv.productRepo.Search(ctx, strings.TrimSpace(q), plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search store inventory")
	}

	return query.NewPage(products, total, plan), nil
}

func (srv *storeService) QRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := srv.storeRepo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, id)
	}

	png, err := srv.qrcode.GenerateStoreQR(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate store QR code")
	}

	return png, nil
}

func (srv *storeService) update(ctx context.Context, id uuid.UUID, apply func(*entity.Store) error) (*entity.Store, error) {
	store, err := srv.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, id)
	}

	if err := apply(store); err != nil {
		return nil, err
	}

	if err := srv.storeRepo.Update(ctx, store); err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, id)
	}

	return srv.storeRepo.FindByID(ctx, id)
}
