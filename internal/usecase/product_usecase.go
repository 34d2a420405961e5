package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput defines a new product listing.
type CreateProductInput struct {
	StoreID      uuid.UUID
	Name         string
	Tradename    string
	CatchPhrase  string
	Description  string
	Directions   string
	Prescription string
	Caution      string
	Manufacturer string
	Tags         []string
	CategoryIDs  []uuid.UUID
	Packaging    entity.Packaging
	Price        decimal.Decimal
	Discount     decimal.Decimal
	Currency     string

	// ImagePaths are staged local files, published in order before the product is saved.
	ImagePaths []string
}

// UpdateProductInput is a partial patch; nil fields are left unchanged.
type UpdateProductInput struct {
	Name         *string
	Tradename    *string
	CatchPhrase  *string
	Description  *string
	Directions   *string
	Prescription *string
	Caution      *string
	Manufacturer *string
	Tags         []string
	Packaging    *entity.Packaging
	Price        *decimal.Decimal
	Discount     *decimal.Decimal
	Currency     *string
}

// ProductDetail is a product with a summary of its store.
type ProductDetail struct {
	Product *entity.Product
	Store   *entity.Store
}

type ProductUsecase interface {
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	ListProducts(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Product], error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	ChangeDiscount(ctx context.Context, id uuid.UUID, discount decimal.Decimal) (*entity.Product, error)
	SetCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}
