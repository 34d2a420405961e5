package postgres_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustPlan(t *testing.T, raw string, schema *query.Schema) *query.Plan {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	plan, err := query.Parse(values, schema, query.Options{DefaultLimit: 16, MaxLimit: 100})
	require.NoError(t, err)

	return plan
}

func seedUser(t *testing.T, repo repository.UserRepository, name string, role entity.Role) *entity.User {
	t.Helper()
	user := &entity.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "hash",
		Role:         role,
		AccountType:  entity.AccountType(strings.ToLower(role.String())),
	}
	require.NoError(t, repo.Create(context.Background(), user))

	return user
}

func seedStore(t *testing.T, repo repository.StoreRepository, ownerID uuid.UUID, name string, at orb.Point) *entity.Store {
	t.Helper()
	store := &entity.Store{
		OwnerID:  ownerID,
		Name:     name,
		Email:    name + "@stores.example.com",
		Location: at,
		Status:   entity.StoreStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), store))

	return store
}

func seedProduct(t *testing.T, repo repository.ProductRepository, storeID uuid.UUID, name string, price int64, categories ...uuid.UUID) *entity.Product {
	t.Helper()
	product := &entity.Product{
		StoreID:     storeID,
		Name:        name,
		Tradename:   name + " TM",
		CategoryIDs: categories,
		Pricing: entity.Pricing{
			Price:    decimal.NewFromInt(price),
			Discount: decimal.Zero,
			Currency: "UGX",
		},
	}
	require.NoError(t, repo.Create(context.Background(), product))

	return product
}
