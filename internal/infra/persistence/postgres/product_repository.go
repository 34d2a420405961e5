package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	products, err := repo.withCategories(ctx, []*model.ProductModel{&productM})
	if err != nil {
		return nil, err
	}

	return products[0], nil
}

func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	found := make(map[uuid.UUID]*entity.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var rows []*model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find products")
	}

	products, err := repo.withCategories(ctx, rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ID] = p
	}

	return found, nil
}

// Create inserts the product and its category links in one transaction.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(productM).Error; err != nil {
			if isNotNullConstraintViolation(err) {
				return domainerrors.ErrValidationFailed.WithDetails("missing required product information")
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
		}

		return linkCategories(tx, productM.ID, product.CategoryIDs)
	})
	if err != nil {
		return err
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update saves the product columns. Category links are managed by ReplaceCategories.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", productM.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(productM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) ReplaceCategories(ctx context.Context, productID uuid.UUID, ids []uuid.UUID) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCategoryModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to clear product categories")
		}

		return linkCategories(tx, productID, ids)
	})
}

func linkCategories(tx *gorm.DB, productID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	links := make([]model.ProductCategoryModel, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, model.ProductCategoryModel{ProductID: productID, CategoryID: id})
	}

	if err := tx.Create(&links).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to link product categories")
	}

	return nil
}

func (repo *productRepository) List(ctx context.Context, plan *query.Plan) ([]*entity.Product, int64, error) {
	return repo.list(ctx, plan, listScopes{})
}

func (repo *productRepository) Search(ctx context.Context, q string, plan *query.Plan) ([]*entity.Product, int64, error) {
	return repo.list(ctx, plan, listScopes{
		where: []scope{containsScope(q, "name", "tradename", "description")},
	})
}

func (repo *productRepository) list(ctx context.Context, plan *query.Plan, scopes listScopes) ([]*entity.Product, int64, error) {
	rows, total, err := listModels[model.ProductModel](ctx, repo.db, plan, scopes)
	if err != nil {
		return nil, 0, err
	}

	products, err := repo.withCategories(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductCategoryModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to unlink product categories")
		}
		if err := tx.Where("id = ?", id).Delete(&model.ProductModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete product")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// withCategories maps rows to entities and fills their category ids with one query.
func (repo *productRepository) withCategories(ctx context.Context, rows []*model.ProductModel) ([]*entity.Product, error) {
	products := make([]*entity.Product, len(rows))
	if len(rows) == 0 {
		return products, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var links []model.ProductCategoryModel
	if err := repo.db.WithContext(ctx).Where("product_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load product categories")
	}

	byProduct := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l.CategoryID)
	}

	for i, row := range rows {
		products[i] = toProductDomain(row, byProduct[row.ID])
	}

	return products, nil
}

// --- Mapper Functions ---

func toProductDomain(data *model.ProductModel, categoryIDs []uuid.UUID) *entity.Product {
	if data == nil {
		return nil
	}
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}

	images := make([]entity.Image, len(data.Images))
	for i, img := range data.Images {
		images[i] = entity.Image{ID: img.ID, URL: img.URL}
	}

	return &entity.Product{
		ID:           data.ID,
		StoreID:      data.StoreID,
		Name:         data.Name,
		Tradename:    data.Tradename,
		CatchPhrase:  data.CatchPhrase,
		Description:  data.Description,
		Directions:   data.Directions,
		Prescription: data.Prescription,
		Caution:      data.Caution,
		Manufacturer: data.Manufacturer,
		Tags:         data.Tags,
		CategoryIDs:  categoryIDs,
		Packaging: entity.Packaging{
			Size:     data.PackagingSize,
			Quantity: data.PackagingQuantity,
			Weight:   data.PackagingWeight,
		},
		Images: images,
		Pricing: entity.Pricing{
			Price:    data.Price,
			Discount: data.Discount,
			Currency: data.Currency,
		},
		Rating:    data.Rating,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	images := make([]model.ImageModel, len(data.Images))
	for i, img := range data.Images {
		images[i] = model.ImageModel{ID: img.ID, URL: img.URL}
	}

	return &model.ProductModel{
		ID:                data.ID,
		StoreID:           data.StoreID,
		Name:              data.Name,
		Tradename:         data.Tradename,
		CatchPhrase:       data.CatchPhrase,
		Description:       data.Description,
		Directions:        data.Directions,
		Prescription:      data.Prescription,
		Caution:           data.Caution,
		Manufacturer:      data.Manufacturer,
		Tags:              data.Tags,
		PackagingSize:     data.Packaging.Size,
		PackagingQuantity: data.Packaging.Quantity,
		PackagingWeight:   data.Packaging.Weight,
		Images:            images,
		Price:             data.Pricing.Price,
		Discount:          data.Pricing.Discount,
		Currency:          data.Pricing.Currency,
		Rating:            data.Rating,
		CreatedAt:         data.CreatedAt,
	}
}
