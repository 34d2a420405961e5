package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

type CreateCategoryInput struct {
	Name        string
	Description string
	ParentID    *uuid.UUID
	Icon        string
	Featured    bool
}

// UpdateCategoryInput is a partial patch. ClearParent detaches the category from its parent.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	ParentID    *uuid.UUID
	ClearParent bool
	Icon        *string
	Featured    *bool
}

// CategoryDetail is a category with its direct subcategories.
type CategoryDetail struct {
	Category      *entity.Category
	Subcategories []*entity.Category
}

type CategoryUsecase interface {
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
	ListCategories(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Category], error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input *UpdateCategoryInput) (*entity.Category, error)

	// DeleteCategory refuses while subcategories exist and unlinks products.
	DeleteCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}
