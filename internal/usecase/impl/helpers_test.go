package impl

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/persistence/postgres"
	mockservice "storefront/internal/mocks/service"
	"storefront/internal/testutil/testdb"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth:  &config.AuthConfig{BcryptCost: bcrypt.MinCost, TokenTTL: time.Hour},
		Query: &config.QueryConfig{DefaultLimit: 16, MaxLimit: 100},
		Media: &config.MediaConfig{MaxImages: 5},
		Store: &config.StoreConfig{DefaultCurrency: "UGX"},
	}
	cfg.SecretKey.Access = "test-secret"

	return cfg
}

// testEnv wires the use cases to one in-memory database. Media and events are mocks.
type testEnv struct {
	cfg        *config.Config
	logger     *slog.Logger
	txManager  repository.TransactionManager
	users      repository.UserRepository
	stores     repository.StoreRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	orders     repository.OrderRepository
	hasher     service.PasswordHasher
	tokens     service.TokenService
	uploader   *mockservice.MockMediaUploader
	publisher  *mockservice.MockEventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testdb.New(t)
	cfg := newTestConfig()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return &testEnv{
		cfg:        cfg,
		logger:     newDiscardLogger(),
		txManager:  postgres.NewTransactionManager(db),
		users:      postgres.NewUserRepository(db),
		stores:     postgres.NewStoreRepository(db),
		categories: postgres.NewCategoryRepository(db),
		products:   postgres.NewProductRepository(db),
		orders:     postgres.NewOrderRepository(db),
		hasher:     auth.NewBcryptHasher(cfg),
		tokens:     tokens,
		uploader:   mockservice.NewMockMediaUploader(t),
		publisher:  mockservice.NewMockEventPublisher(t),
	}
}

func (env *testEnv) authService() *authService {
	return NewAuthService(AuthServiceParams{
		UserRepo:     env.users,
		Hasher:       env.hasher,
		TokenService: env.tokens,
		Uploader:     env.uploader,
		Logger:       env.logger,
	}).(*authService)
}

func (env *testEnv) userService() *userService {
	return NewUserService(UserServiceParams{
		TxManager: env.txManager,
		UserRepo:  env.users,
		Hasher:    env.hasher,
		Uploader:  env.uploader,
		Logger:    env.logger,
	}).(*userService)
}

func (env *testEnv) storeService(qr service.QRCodeService) *storeService {
	return NewStoreService(StoreServiceParams{
		TxManager:   env.txManager,
		StoreRepo:   env.stores,
		UserRepo:    env.users,
		ProductRepo: env.products,
		Hasher:      env.hasher,
		Uploader:    env.uploader,
		QRCode:      qr,
		Config:      env.cfg,
		Logger:      env.logger,
	}).(*storeService)
}

func (env *testEnv) categoryService() *categoryService {
	return NewCategoryService(CategoryServiceParams{
		TxManager:    env.txManager,
		CategoryRepo: env.categories,
		Logger:       env.logger,
	}).(*categoryService)
}

func (env *testEnv) productService() *productService {
	return NewProductService(ProductServiceParams{
		TxManager:    env.txManager,
		ProductRepo:  env.products,
		StoreRepo:    env.stores,
		CategoryRepo: env.categories,
		Uploader:     env.uploader,
		Config:       env.cfg,
		Logger:       env.logger,
	}).(*productService)
}

func (env *testEnv) orderService() *orderService {
	return NewOrderService(OrderServiceParams{
		TxManager:   env.txManager,
		OrderRepo:   env.orders,
		ProductRepo: env.products,
		StoreRepo:   env.stores,
		UserRepo:    env.users,
		Publisher:   env.publisher,
		Config:      env.cfg,
		Logger:      env.logger,
	}).(*orderService)
}

func (env *testEnv) seedUser(t *testing.T, name string, role entity.Role) *entity.User {
	t.Helper()

	hash, err := env.hasher.Hash("secret-" + name)
	require.NoError(t, err)
	user := &entity.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: hash,
		Role:         role,
		AccountType:  entity.AccountType(role.String()).Normalize(),
	}
	require.NoError(t, env.users.Create(context.Background(), user))

	return user
}

func (env *testEnv) seedStore(t *testing.T, owner *entity.User, name string, at orb.Point) *entity.Store {
	t.Helper()

	store := &entity.Store{
		OwnerID:  owner.ID,
		Name:     name,
		Slug:     entity.Slugify(name),
		Email:    entity.Slugify(name) + "@stores.example.com",
		Location: at,
		Status:   entity.StoreStatusActive,
	}
	require.NoError(t, env.stores.Create(context.Background(), store))

	return store
}

func (env *testEnv) seedProduct(t *testing.T, storeID uuid.UUID, name string, price, discount int64) *entity.Product {
	t.Helper()

	product := &entity.Product{
		StoreID: storeID,
		Name:    name,
		Pricing: entity.Pricing{
			Price:    decimal.NewFromInt(price),
			Discount: decimal.NewFromInt(discount),
			Currency: "UGX",
		},
	}
	require.NoError(t, env.products.Create(context.Background(), product))

	return product
}

func mustPlan(t *testing.T, raw string, schema *query.Schema) *query.Plan {
	t.Helper()

	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	plan, err := query.Parse(values, schema, query.Options{DefaultLimit: 16, MaxLimit: 100})
	require.NoError(t, err)

	return plan
}
