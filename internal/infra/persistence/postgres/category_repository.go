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

// categoryRepository implements the repository.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryM model.CategoryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&categoryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category by id")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error) {
	if len(ids) == 0 {
		return []*entity.Category{}, nil
	}

	var rows []*model.CategoryModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find categories")
	}

	return toCategoriesDomain(rows), nil
}

func (repo *categoryRepository) Children(ctx context.Context, parentID uuid.UUID) ([]*entity.Category, error) {
	var rows []*model.CategoryModel
	if err := repo.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find subcategories")
	}

	return toCategoriesDomain(rows), nil
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)

	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCategoryAlreadyExists.WrapMessage("category name already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)

	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", categoryM.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(categoryM)
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCategoryAlreadyExists.WrapMessage("category name already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

func (repo *categoryRepository) List(ctx context.Context, plan *query.Plan) ([]*entity.Category, int64, error) {
	rows, total, err := listModels[model.CategoryModel](ctx, repo.db, plan, listScopes{})
	if err != nil {
		return nil, 0, err
	}

	return toCategoriesDomain(rows), total, nil
}

// Delete removes the category and the product links pointing at it.
func (repo *categoryRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	db := repo.db.WithContext(ctx)
	if err := db.Where("category_id = ?", id).Delete(&model.ProductCategoryModel{}).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to unlink category products")
	}
	if err := db.Where("id = ?", id).Delete(&model.CategoryModel{}).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to delete category")
	}

	return category, nil
}

// --- Mapper Functions ---

func toCategoriesDomain(rows []*model.CategoryModel) []*entity.Category {
	categories := make([]*entity.Category, len(rows))
	for i, row := range rows {
		categories[i] = toCategoryDomain(row)
	}

	return categories
}

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	return &entity.Category{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		ParentID:    data.ParentID,
		Icon:        data.Icon,
		Image:       toImage(data.ImageID, data.ImageURL),
		Featured:    data.Featured,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromCategoryDomain(data *entity.Category) *model.CategoryModel {
	if data == nil {
		return nil
	}

	categoryM := &model.CategoryModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		ParentID:    data.ParentID,
		Icon:        data.Icon,
		Featured:    data.Featured,
		CreatedAt:   data.CreatedAt,
	}
	if data.Image != nil {
		categoryM.ImageID = data.Image.ID
		categoryM.ImageURL = data.Image.URL
	}

	return categoryM
}
