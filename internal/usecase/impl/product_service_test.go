package impl

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductInput(storeID uuid.UUID, name string) *usecase.CreateProductInput {
	return &usecase.CreateProductInput{
		StoreID:  storeID,
		Name:     name,
		Price:    decimal.NewFromInt(100),
		Discount: decimal.NewFromInt(25),
		Tags:     []string{"otc", ""},
	}
}

func productImage(path string) *entity.Image {
	key := "products/" + path[len("/tmp/"):]

	return &entity.Image{ID: key, URL: "https://cdn.example.com/" + key}
}

func TestProductService_CreateProduct(t *testing.T) {
	env := newTestEnv(t)
	srv := env.productService()
	ctx := context.Background()
	owner := env.seedUser(t, "p-owner", entity.RoleStoreAdmin)
	store := env.seedStore(t, owner, "Chemist", kampala)

	paths := []string{"/tmp/a.jpg", "/tmp/b.jpg"}
	for _, p := range paths {
		env.uploader.EXPECT().Upload(mock.Anything, p, productFolder).Return(productImage(p), nil).Once()
	}

	input := newProductInput(store.ID, "Panadol")
	input.ImagePaths = paths

	product, err := srv.CreateProduct(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "UGX", product.Pricing.Currency)
	assert.True(t, product.Pricing.ActualPrice().Equal(decimal.NewFromInt(75)))
	assert.Equal(t, []string{"otc"}, product.Tags)
	require.Len(t, product.Images, 2)
	assert.Equal(t, "products/a.jpg", product.Images[0].ID)

	detail, err := srv.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Store)
	assert.Equal(t, "Chemist", detail.Store.Name)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	srv := env.productService()
	ctx := context.Background()
	owner := env.seedUser(t, "v-owner", entity.RoleStoreAdmin)
	store := env.seedStore(t, owner, "Validator", kampala)

	tooMany := newProductInput(store.ID, "Gallery")
	for i := range 6 {
		tooMany.ImagePaths = append(tooMany.ImagePaths, fmt.Sprintf("/tmp/%d.jpg", i))
	}

	badDiscount := newProductInput(store.ID, "Giveaway")
	badDiscount.Discount = decimal.NewFromInt(120)

	missingCategory := newProductInput(store.ID, "Lonely")
	missingCategory.CategoryIDs = []uuid.UUID{uuid.New()}

	tests := []struct {
		name  string
		input *usecase.CreateProductInput
		want  error
	}{
		{"no store", newProductInput(uuid.Nil, "Nowhere"), domainerrors.ErrStoreRequired},
		{"unknown store", newProductInput(uuid.New(), "Ghost"), domainerrors.ErrStoreNotFound},
		{"too many images", tooMany, domainerrors.ErrTooManyImages},
		{"discount above 100", badDiscount, domainerrors.ErrValidationFailed},
		{"unknown category", missingCategory, domainerrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.CreateProduct(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProductService_CreateProduct_UploadFailureDiscardsPublished(t *testing.T) {
	env := newTestEnv(t)
	srv := env.productService()
	owner := env.seedUser(t, "u-owner", entity.RoleStoreAdmin)
	store := env.seedStore(t, owner, "Flaky", kampala)

	first := productImage("/tmp/ok.jpg")
	env.uploader.EXPECT().Upload(mock.Anything, "/tmp/ok.jpg", productFolder).Return(first, nil).Once()
	env.uploader.EXPECT().Upload(mock.Anything, "/tmp/bad.jpg", productFolder).Return(nil, errors.New("timeout")).Once()
	env.uploader.EXPECT().Delete(mock.Anything, first.ID).Return(nil).Once()

	input := newProductInput(store.ID, "Broken")
	input.ImagePaths = []string{"/tmp/ok.jpg", "/tmp/bad.jpg"}

	_, err := srv.CreateProduct(context.Background(), input)
	require.ErrorIs(t, err, domainerrors.ErrMediaUploadFailed)

	page, err := srv.ListProducts(context.Background(), mustPlan(t, "", query.Products))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestProductService_UpdateAndDiscount(t *testing.T) {
	env := newTestEnv(t)
	srv := env.productService()
	ctx := context.Background()
	owner := env.seedUser(t, "d-owner", entity.RoleStoreAdmin)
	store := env.seedStore(t, owner, "Discounts", kampala)
	product := env.seedProduct(t, store.ID, "Soap", 2000, 0)

	name := "Bar Soap"
	price := decimal.NewFromInt(2500)
	updated, err := srv.UpdateProduct(ctx, product.ID, &usecase.UpdateProductInput{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Bar Soap", updated.Name)
	assert.True(t, updated.Pricing.Price.Equal(price))

	discounted, err := srv.ChangeDiscount(ctx, product.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, discounted.Pricing.ActualPrice().Equal(decimal.NewFromInt(2000)))

	_, err = srv.ChangeDiscount(ctx, product.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = srv.ChangeDiscount(ctx, uuid.New(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_SetCategories(t *testing.T) {
	env := newTestEnv(t)
	srv := env.productService()
	ctx := context.Background()
	owner := env.seedUser(t, "c-owner", entity.RoleStoreAdmin)
	store := env.seedStore(t, owner, "Categorised", kampala)
	product := env.seedProduct(t, store.ID, "Tea", 3000, 0)

	herbal := &entity.Category{Name: "Herbal"}
	drinks := &entity.Category{Name: "Drinks"}
	require.NoError(t, env.categories.Create(ctx, herbal))
	require.NoError(t, env.categories.Create(ctx, drinks))

	updated, err := srv.SetCategories(ctx, product.ID, []uuid.UUID{herbal.ID, drinks.ID, herbal.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{herbal.ID, drinks.ID}, updated.CategoryIDs)

	_, err = srv.SetCategories(ctx, product.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	page, err := srv.ListProducts(ctx, mustPlan(t, "categories="+drinks.ID.String(), query.Products))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestProductService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	srv := env.productService()
	ctx := context.Background()
	owner := env.seedUser(t, "l-owner", entity.RoleStoreAdmin)
	store := env.seedStore(t, owner, "Lister", kampala)
	for i, price := range []int64{50, 100, 150, 200} {
		env.seedProduct(t, store.ID, fmt.Sprintf("Item %d", i), price, 0)
	}

	page, err := srv.ListProducts(ctx, mustPlan(t, "price=gt:100&sort=price", query.Products))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].Pricing.Price.Equal(decimal.NewFromInt(150)))

	page, err = srv.ListProducts(ctx, mustPlan(t, "price=100", query.Products))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestProductService_DeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	srv := env.productService()
	ctx := context.Background()
	owner := env.seedUser(t, "x-owner", entity.RoleStoreAdmin)
	store := env.seedStore(t, owner, "Clearance", kampala)

	img := productImage("/tmp/old.jpg")
	env.uploader.EXPECT().Upload(mock.Anything, "/tmp/old.jpg", productFolder).Return(img, nil).Once()
	input := newProductInput(store.ID, "Old Stock")
	input.ImagePaths = []string{"/tmp/old.jpg"}
	product, err := srv.CreateProduct(ctx, input)
	require.NoError(t, err)

	env.uploader.EXPECT().Delete(mock.Anything, img.ID).Return(nil).Once()

	deleted, err := srv.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, deleted.ID)

	_, err = srv.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}
