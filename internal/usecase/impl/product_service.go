package impl

import (
	"context"
	"log/slog"
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
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const productFolder = "products"

type productService struct {
	txManager       repository.TransactionManager
	productRepo     repository.ProductRepository
	storeRepo       repository.StoreRepository
	categoryRepo    repository.CategoryRepository
	uploader        service.MediaUploader
	maxImages       int
	defaultCurrency string
	logger          *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ProductRepo  repository.ProductRepository
	StoreRepo    repository.StoreRepository
	CategoryRepo repository.CategoryRepository
	Uploader     service.MediaUploader
	Config       *config.Config
	Logger       *slog.Logger
}

func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:       params.TxManager,
		productRepo:     params.ProductRepo,
		storeRepo:       params.StoreRepo,
		categoryRepo:    params.CategoryRepo,
		uploader:        params.Uploader,
		maxImages:       params.Config.Media.MaxImages,
		defaultCurrency: params.Config.Store.DefaultCurrency,
		logger:          params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateProduct validates references, publishes the images and saves the
// product. Images already published are removed if the save fails.
func (srv *productService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	if input.StoreID == uuid.Nil {
		return nil, domainerrors.ErrStoreRequired
	}
	if len(input.ImagePaths) > srv.maxImages {
		return nil, domainerrors.ErrTooManyImages.WithDetailsf("at most %d images are allowed", srv.maxImages)
	}
	if err := validatePricing(input.Price, input.Discount); err != nil {
		return nil, err
	}

	if _, err := srv.storeRepo.FindByID(ctx, input.StoreID); err != nil {
		return nil, notFound(err, repository.ErrStoreNotFound, domainerrors.ErrStoreNotFound, input.StoreID)
	}
	if err := srv.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	images := make([]entity.Image, 0, len(input.ImagePaths))
	published := make([]*entity.Image, 0, len(input.ImagePaths))
	for _, path := range input.ImagePaths {
		img, err := uploadImage(ctx, srv.uploader, path, productFolder)
		if err != nil {
			discardImages(ctx, srv.uploader, srv.log(ctx), published...)

			return nil, err
		}
		images = append(images, *img)
		published = append(published, img)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = srv.defaultCurrency
	}

	product := &entity.Product{
		StoreID:      input.StoreID,
		Name:         strings.TrimSpace(input.Name),
		Tradename:    input.Tradename,
		CatchPhrase:  input.CatchPhrase,
		Description:  input.Description,
		Directions:   input.Directions,
		Prescription: input.Prescription,
		Caution:      input.Caution,
		Manufacturer: input.Manufacturer,
		Tags:         compact(input.Tags),
		CategoryIDs:  uniqueIDs(input.CategoryIDs),
		Packaging:    input.Packaging,
		Images:       images,
		Pricing: entity.Pricing{
			Price:    input.Price,
			Discount: input.Discount,
			Currency: currency,
		},
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		discardImages(ctx, srv.uploader, srv.log(ctx), published...)

		return nil, err
	}

	srv.log(ctx).Info("Product created",
		slog.String("product_id", product.ID.String()),
		slog.String("store_id", product.StoreID.String()),
		slog.Int("images", len(images)),
	)

	return product, nil
}

// GetProduct returns the product and a summary of its store. A store that
// has since been deleted is omitted.
func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*usecase.ProductDetail, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrProductNotFound, domainerrors.ErrProductNotFound, id)
	}

	store, err := srv.storeRepo.FindByID(ctx, product.StoreID)
	if err != nil && !errors.Is(err, repository.ErrStoreNotFound) {
		return nil, errors.Wrap(err, "failed to load product store")
	}

	return &usecase.ProductDetail{Product: product, Store: store}, nil
}

func (srv *productService) ListProducts(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Product], error) {
	products, total, err := srv.productRepo.List(ctx, plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return query.NewPage(products, total, plan), nil
}

func (srv *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	return srv.update(ctx, id, func(p *entity.Product) error {
		applyString(&p.Name, input.Name)
		applyString(&p.Tradename, input.Tradename)
		applyString(&p.CatchPhrase, input.CatchPhrase)
		applyString(&p.Description, input.Description)
		applyString(&p.Directions, input.Directions)
		applyString(&p.Prescription, input.Prescription)
		applyString(&p.Caution, input.Caution)
		applyString(&p.Manufacturer, input.Manufacturer)
		if input.Tags != nil {
			p.Tags = compact(input.Tags)
		}
		if input.Packaging != nil {
			p.Packaging = *input.Packaging
		}
		if input.Price != nil {
			p.Pricing.Price = *input.Price
		}
		if input.Discount != nil {
			p.Pricing.Discount = *input.Discount
		}
		if input.Currency != nil {
			p.Pricing.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
		}

		return validatePricing(p.Pricing.Price, p.Pricing.Discount)
	})
}

func (srv *productService) ChangeDiscount(ctx context.Context, id uuid.UUID, discount decimal.Decimal) (*entity.Product, error) {
	return srv.update(ctx, id, func(p *entity.Product) error {
		p.Pricing.Discount = discount

		return validatePricing(p.Pricing.Price, discount)
	})
}

// SetCategories replaces the product's categories. Every category must exist.
func (srv *productService) SetCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) (*entity.Product, error) {
	if _, err := srv.productRepo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, repository.ErrProductNotFound, domainerrors.ErrProductNotFound, id)
	}
	if err := srv.checkCategories(ctx, categoryIDs); err != nil {
		return nil, err
	}

	if err := srv.productRepo.ReplaceCategories(ctx, id, uniqueIDs(categoryIDs)); err != nil {
		return nil, errors.Wrap(err, "failed to replace product categories")
	}

	return srv.productRepo.FindByID(ctx, id)
}

// DeleteProduct removes the product and then its published images.
func (srv *productService) DeleteProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	deleted, err := srv.productRepo.Delete(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrProductNotFound, domainerrors.ErrProductNotFound, id)
	}

	images := make([]*entity.Image, len(deleted.Images))
	for i := range deleted.Images {
		images[i] = &deleted.Images[i]
	}
	discardImages(ctx, srv.uploader, srv.log(ctx), images...)

	srv.log(ctx).Info("Product deleted", slog.String("product_id", id.String()))

	return deleted, nil
}

func (srv *productService) update(ctx context.Context, id uuid.UUID, apply func(*entity.Product) error) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrProductNotFound, domainerrors.ErrProductNotFound, id)
	}

	if err := apply(product); err != nil {
		return nil, err
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, notFound(err, repository.ErrProductNotFound, domainerrors.ErrProductNotFound, id)
	}

	return srv.productRepo.FindByID(ctx, id)
}

func (srv *productService) checkCategories(ctx context.Context, ids []uuid.UUID) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	found, err := srv.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "failed to load categories")
	}
	if len(found) == len(ids) {
		return nil
	}

	known := make(map[uuid.UUID]struct{}, len(found))
	for _, c := range found {
		known[c.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return domainerrors.ErrValidationFailed.WithDetailsf("category %s does not exist", id)
		}
	}

	return nil
}

func validatePricing(price, discount decimal.Decimal) error {
	if price.IsNegative() {
		return domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
	}
	if !entity.ValidDiscount(discount) {
		return domainerrors.ErrValidationFailed.WithDetails("discount must be between 0 and 100")
	}

	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// uniqueIDs drops nil and repeated ids, keeping the first occurrence.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
