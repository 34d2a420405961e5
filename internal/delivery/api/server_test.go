package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/config"
	apimiddleware "storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/media"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/infra/pubsub"
	"storefront/internal/infra/qrcode"
	"storefront/internal/testutil/testdb"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Error      bool            `json:"error"`
	Status     int             `json:"status"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Count      *int            `json:"count"`
	Total      *int64          `json:"total"`
	Pagination *struct {
		Next *struct{ Page, Limit int } `json:"next"`
		Prev *struct{ Page, Limit int } `json:"prev"`
	} `json:"pagination"`
}

type testServer struct {
	t            *testing.T
	e            *echo.Echo
	userUC       usecase.UserUsecase
	orderEventUC usecase.OrderEventUsecase
	bucket       *blob.Bucket
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Auth:   &config.AuthConfig{BcryptCost: bcrypt.MinCost, TokenTTL: time.Hour},
		Query:  &config.QueryConfig{DefaultLimit: 2, MaxLimit: 50},
		Media:  &config.MediaConfig{MaxImages: 2, ScratchDir: t.TempDir()},
		Store:  &config.StoreConfig{DefaultCurrency: "UGX"},
		Events: &config.EventsConfig{Provider: "noop"},
	}
	cfg.SecretKey.Access = "test-secret"
	cfg.HTTP.MaxRequestBodySize = "10MB"

	db := testdb.New(t)
	txManager := postgres.NewTransactionManager(db)
	users := postgres.NewUserRepository(db)
	stores := postgres.NewStoreRepository(db)
	products := postgres.NewProductRepository(db)
	categories := postgres.NewCategoryRepository(db)
	orders := postgres.NewOrderRepository(db)
	orderEvents := postgres.NewOrderEventRepository(db)

	hasher := auth.NewBcryptHasher(cfg)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	uploader := media.NewUploader(bucket, "https://cdn.test/", logger)
	stager := media.NewStager(cfg)
	publisher := pubsub.NewNoopPublisher(logger)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo: users, Hasher: hasher, TokenService: tokens, Uploader: uploader, Logger: logger,
	})
	userUC := impl.NewUserService(impl.UserServiceParams{
		TxManager: txManager, UserRepo: users, Hasher: hasher, Uploader: uploader, Logger: logger,
	})
	storeUC := impl.NewStoreService(impl.StoreServiceParams{
		TxManager: txManager, StoreRepo: stores, UserRepo: users, ProductRepo: products,
		Hasher: hasher, Uploader: uploader, QRCode: qrcode.NewQRCodeService(128, "M", "https://shop.test"),
		Config: cfg, Logger: logger,
	})
	categoryUC := impl.NewCategoryService(impl.CategoryServiceParams{
		TxManager: txManager, CategoryRepo: categories, Logger: logger,
	})
	productUC := impl.NewProductService(impl.ProductServiceParams{
		TxManager: txManager, ProductRepo: products, StoreRepo: stores, CategoryRepo: categories,
		Uploader: uploader, Config: cfg, Logger: logger,
	})
	orderUC := impl.NewOrderService(impl.OrderServiceParams{
		TxManager: txManager, OrderRepo: orders, ProductRepo: products, StoreRepo: stores, UserRepo: users,
		Publisher: publisher, Config: cfg, Logger: logger,
	})
	orderEventUC := impl.NewOrderEventService(impl.OrderEventServiceParams{EventRepo: orderEvents, Logger: logger})

	e := NewEcho(cfg, logger, router.RouterParams{
		AuthHandler:     handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Stager: stager, Logger: logger}),
		UserHandler:     handler.NewUserHandler(handler.UserHandlerParams{UserUC: userUC, Config: cfg, Logger: logger}),
		StoreHandler:    handler.NewStoreHandler(handler.StoreHandlerParams{StoreUC: storeUC, Stager: stager, Config: cfg, Logger: logger}),
		ProductHandler:  handler.NewProductHandler(handler.ProductHandlerParams{ProductUC: productUC, Stager: stager, Config: cfg, Logger: logger}),
		CategoryHandler: handler.NewCategoryHandler(handler.CategoryHandlerParams{CategoryUC: categoryUC, Config: cfg, Logger: logger}),
		OrderHandler:    handler.NewOrderHandler(handler.OrderHandlerParams{OrderUC: orderUC, OrderEventUC: orderEventUC, Config: cfg, Logger: logger}),
		AuthMiddleware:  apimiddleware.NewAuthMiddleware(authUC),
	})

	return &testServer{t: t, e: e, userUC: userUC, orderEventUC: orderEventUC, bucket: bucket}
}

func (s *testServer) do(method, path string, body io.Reader, contentType, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec, env
}

func (s *testServer) json(method, path string, payload any, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(raw)
	}

	return s.do(method, path, body, echo.MIMEApplicationJSON, token)
}

// multipartBody builds a form with the fields and one small PNG per file name under fileField.
func multipartBody(t *testing.T, fields map[string]string, fileField string, fileNames ...string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for i, name := range fileNames {
		part, err := w.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), byte(i)))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(raw, &out))

	return out
}

// signup registers through the API and signs in, returning the token and user id.
func (s *testServer) signup(accountType, name string) (string, string) {
	s.t.Helper()

	rec, _ := s.json(http.MethodPost, "/api/auth/signup?account_type="+accountType, map[string]any{
		"email": name + "@example.com", "username": name, "password": "secret-" + name,
	}, "")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	return s.signin(name)
}

func (s *testServer) signin(name string) (string, string) {
	s.t.Helper()

	rec, env := s.json(http.MethodPost, "/api/auth/signin", map[string]string{
		"email": name + "@example.com", "password": "secret-" + name,
	}, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[handler.SigninResponse](s.t, env.Data)
	require.NotEmpty(s.t, out.Token)

	return out.Token, out.User.ID.String()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodGet, "/health", nil, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Error)
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	token, userID := s.signup("customer", "amara")

	rec, env := s.do(http.MethodGet, "/api/auth/me", nil, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, env.Data)
	assert.Equal(t, userID, me["id"])
	assert.Equal(t, "CUSTOMER", me["role"])
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "password_hash")

	rec, env = s.do(http.MethodGet, "/api/auth/me", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, env.Error)
	assert.Equal(t, http.StatusUnauthorized, env.Status)

	rec, _ = s.do(http.MethodGet, "/api/auth/me", nil, "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = s.json(http.MethodPost, "/api/auth/signin", map[string]string{
		"email": "amara@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)

	rec, env = s.json(http.MethodPost, "/api/auth/signup?account_type=customer", map[string]any{
		"email": "amara@example.com", "username": "amara2", "password": "secret-x",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", env.Code)

	rec, env = s.json(http.MethodPost, "/api/auth/signup?account_type=admin", map[string]any{
		"email": "root@example.com", "username": "root", "password": "secret-root",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ACCOUNT_TYPE", env.Code)

	rec, env = s.json(http.MethodPost, "/api/auth/signup?account_type=customer", map[string]any{
		"email": "not-an-email", "username": "x", "password": "1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Code)
}

func TestSignup_WithAvatar(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{
		"email": "kato@example.com", "username": "kato", "password": "secret-kato",
	}, "avatar", "me.png")
	rec, env := s.do(http.MethodPost, "/api/auth/signup?account_type=delivery_agent", body, contentType, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user := decode[handler.UserResponse](t, env.Data)
	assert.Equal(t, "DELIVERY_AGENT", user.Role)
	require.NotNil(t, user.Avatar)
	assert.True(t, strings.HasPrefix(user.Avatar.URL, "https://cdn.test/"), user.Avatar.URL)
}

func TestUserRoutes_AdminOnly(t *testing.T) {
	s := newTestServer(t)

	customerToken, customerID := s.signup("customer", "amara")
	s.signup("customer", "bosco")
	s.signup("store_admin", "chebet")

	rec, env := s.do(http.MethodGet, "/api/users", nil, "", customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Code)

	_, err := s.userUC.CreateAdmin(context.Background(), &usecase.NewUserInput{
		Email: "root@example.com", Username: "root", Password: "secret-root",
	})
	require.NoError(t, err)
	adminToken, _ := s.signin("root")

	rec, env = s.do(http.MethodGet, "/api/users?role=CUSTOMER&sort=username", nil, "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	assert.EqualValues(t, 2, *env.Total)
	assert.Nil(t, env.Pagination.Next)

	rec, env = s.do(http.MethodGet, "/api/users?limit=1&page=2&select=username", nil, "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, *env.Count)
	assert.NotNil(t, env.Pagination.Next)
	assert.NotNil(t, env.Pagination.Prev)
	rows := decode[[]map[string]any](t, env.Data)
	require.Len(t, rows, 1)
	assert.ElementsMatch(t, []string{"id", "username"}, keys(rows[0]))

	rec, env = s.do(http.MethodGet, "/api/users?shoe_size=9", nil, "", adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_QUERY", env.Code)

	rec, _ = s.do(http.MethodDelete, "/api/users/"+customerID, nil, "", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/auth/me", nil, "", customerToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

// marketplace seeds a store admin with a store and returns their token and the store id.
func marketplace(t *testing.T, s *testServer) (string, string) {
	t.Helper()

	token, _ := s.signup("store_admin", "chebet")

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Corner Pharmacy",
		"email": "corner@example.com",
		"lat":   "0.3476",
		"lng":   "32.5825",
		"city":  "Kampala",
	}, "cover_image", "cover.png")
	rec, env := s.do(http.MethodPost, "/api/stores/create", body, contentType, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	store := decode[handler.StoreResponse](t, env.Data)
	assert.Equal(t, "corner-pharmacy", store.Slug)
	assert.Equal(t, "Kampala", store.Address.City)
	require.NotNil(t, store.CoverImage)

	return token, store.ID.String()
}

func TestStoreRoutes(t *testing.T) {
	s := newTestServer(t)
	adminToken, storeID := marketplace(t, s)

	customerToken, customerID := s.signup("customer", "amara")

	rec, env := s.json(http.MethodPost, "/api/stores/create?createdBy="+customerID, map[string]any{
		"name": "Shady", "email": "shady@example.com",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "STORE_OWNER_INVALID", env.Code)

	rec, _ = s.json(http.MethodPost, "/api/stores/create", map[string]any{
		"name": "Mine", "email": "mine@example.com",
	}, customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/stores/nearby?lat=0.3476&lng=32.59&distance=5", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	nearby := decode[[]handler.NearbyStoreResponse](t, env.Data)
	require.Len(t, nearby, 1)
	assert.Less(t, nearby[0].Distance, 1.0)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	assert.Equal(t, int64(1), *env.Total)
	require.NotNil(t, env.Pagination)
	assert.Nil(t, env.Pagination.Next)

	rec, env = s.do(http.MethodGet, "/api/stores/nearby?lat=0.3476&lng=32.59&distance=5&page=2&limit=1", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, *env.Count)
	require.NotNil(t, env.Pagination.Prev)
	assert.Equal(t, 1, env.Pagination.Prev.Page)

	rec, env = s.do(http.MethodGet, "/api/stores/nearby?lat=0.3476&lng=32.59&distance=5&select=name", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	projected := decode[[]map[string]any](t, env.Data)
	require.Len(t, projected, 1)
	assert.Equal(t, "Corner Pharmacy", projected[0]["name"])
	assert.NotContains(t, projected[0], "email")

	rec, env = s.do(http.MethodGet, "/api/stores/nearby?lat=0.3476&lng=32.59&distance=5&name=Elsewhere", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, *env.Count)

	rec, env = s.do(http.MethodGet, "/api/stores/nearby?lat=0.3476&lng=32.59&distance=5&select=password", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_QUERY", env.Code)

	rec, env = s.do(http.MethodGet, "/api/stores/recommended?select=name", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, *env.Count)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, "Corner Pharmacy", decode[[]map[string]any](t, env.Data)[0]["name"])

	rec, env = s.do(http.MethodGet, "/api/stores/recommended?sort=-password", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_QUERY", env.Code)

	rec, env = s.do(http.MethodGet, "/api/stores/nearby?lat=abc&lng=32.59&distance=5", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Code)

	rec, env = s.json(http.MethodPost, "/api/stores/search", map[string]string{"q": "corner"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, *env.Count)

	rec, env = s.json(http.MethodPut, "/api/stores/"+storeID+"/location", map[string]float64{"lat": 0.0512, "lng": 32.4435}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	store := decode[map[string]any](t, env.Data)
	location := store["location"].(map[string]any)
	assert.Equal(t, "Point", location["type"])
	coords := location["coordinates"].([]any)
	require.Len(t, coords, 2)
	assert.InDelta(t, 32.4435, coords[0], 1e-9)
	assert.InDelta(t, 0.0512, coords[1], 1e-9)

	rec, env = s.json(http.MethodPatch, "/api/stores/"+storeID, map[string]any{"description": "Open late", "status": "SUSPENDED"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SUSPENDED", decode[handler.StoreResponse](t, env.Data).Status)

	rec, env = s.json(http.MethodPost, "/api/stores/"+storeID+"/addWorker", map[string]any{
		"email": "wanjiru@example.com", "username": "wanjiru", "password": "secret-wanjiru",
	}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[map[string]json.RawMessage](t, env.Data)
	worker := decode[handler.UserResponse](t, added["worker"])
	assert.Equal(t, "STORE_WORKER", worker.Role)
	assert.Contains(t, decode[handler.StoreResponse](t, added["store"]).Workers, worker.ID)

	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stores/"+storeID+"/qr", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec, env = s.do(http.MethodGet, "/api/stores/not-a-uuid", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)

	rec, _ = s.do(http.MethodDelete, "/api/stores/"+storeID, nil, "", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/stores/"+storeID, nil, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "STORE_NOT_FOUND", env.Code)
}

func registerProduct(t *testing.T, s *testServer, token, storeID, name, price, discount string, images ...string) handler.ProductResponse {
	t.Helper()

	body, contentType := multipartBody(t, map[string]string{
		"name": name, "price": price, "discount": discount, "tags": "otc",
	}, "images", images...)
	rec, env := s.do(http.MethodPost, "/api/products/register?store="+storeID, body, contentType, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[handler.ProductResponse](t, env.Data)
}

func TestProductRoutes(t *testing.T) {
	s := newTestServer(t)
	adminToken, storeID := marketplace(t, s)

	panadol := registerProduct(t, s, adminToken, storeID, "Panadol", "100", "25", "a.png", "b.png")
	assert.Equal(t, "75", panadol.ActualPrice.String())
	assert.Len(t, panadol.Images, 2)
	require.NotNil(t, panadol.Image)
	assert.Equal(t, panadol.Images[0].ID, panadol.Image.ID)

	registerProduct(t, s, adminToken, storeID, "Insulin", "250", "0")

	body, contentType := multipartBody(t, map[string]string{"name": "Too many", "price": "1"}, "images", "1.png", "2.png", "3.png")
	rec, env := s.do(http.MethodPost, "/api/products/register?store="+storeID, body, contentType, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TOO_MANY_IMAGES", env.Code)

	rec, env = s.do(http.MethodGet, "/api/products?price=gt:100", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	listed := decode[[]handler.ProductResponse](t, env.Data)
	require.Len(t, listed, 1)
	assert.Equal(t, "Insulin", listed[0].Name)

	rec, env = s.do(http.MethodGet, "/api/products?price=100", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, decode[[]handler.ProductResponse](t, env.Data), 1)

	rec, env = s.json(http.MethodPut, "/api/products/"+panadol.ID.String()+"/change-discount", map[string]any{"discount": 50}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "50", decode[handler.ProductResponse](t, env.Data).ActualPrice.String())

	rec, env = s.do(http.MethodGet, "/api/products/"+panadol.ID.String(), nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[handler.ProductDetailResponse](t, env.Data)
	require.NotNil(t, detail.StoreInfo)
	assert.Equal(t, "Corner Pharmacy", detail.StoreInfo.Name)

	rec, env = s.do(http.MethodGet, "/api/stores/"+storeID+"/inventory/search?q=pana", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, *env.Count)

	rec, env = s.do(http.MethodGet, "/api/stores/"+storeID+"?with_inventory=true", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[handler.StoreDetailResponse](t, env.Data).Inventory, 2)

	customerToken, _ := s.signup("customer", "amara")
	rec, _ = s.do(http.MethodDelete, "/api/products/"+panadol.ID.String(), nil, "", customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/products/"+panadol.ID.String(), nil, "", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/products/"+panadol.ID.String(), nil, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Code)
}

func TestProductDelete_KeepsImagesOfOtherProducts(t *testing.T) {
	s := newTestServer(t)
	adminToken, storeID := marketplace(t, s)

	// Both uploads carry byte-identical content.
	first := registerProduct(t, s, adminToken, storeID, "Gauze", "5", "0", "a.png")
	second := registerProduct(t, s, adminToken, storeID, "Bandage", "5", "0", "b.png")
	require.Len(t, first.Images, 1)
	require.Len(t, second.Images, 1)
	assert.NotEqual(t, first.Images[0].ID, second.Images[0].ID)

	rec, _ := s.do(http.MethodDelete, "/api/products/"+first.ID.String(), nil, "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ctx := context.Background()
	gone, err := s.bucket.Exists(ctx, first.Images[0].ID)
	require.NoError(t, err)
	assert.False(t, gone)
	kept, err := s.bucket.Exists(ctx, second.Images[0].ID)
	require.NoError(t, err)
	assert.True(t, kept)
}

func TestCategoryRoutes(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := marketplace(t, s)

	rec, env := s.json(http.MethodPost, "/api/categories", map[string]any{"name": "Health"}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	parent := decode[handler.CategoryResponse](t, env.Data)

	rec, env = s.json(http.MethodPost, "/api/categories", map[string]any{"name": "Vitamins", "parent": parent.ID.String()}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	child := decode[handler.CategoryResponse](t, env.Data)

	rec, env = s.do(http.MethodGet, "/api/categories/"+parent.ID.String(), nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[handler.CategoryDetailResponse](t, env.Data)
	require.Len(t, detail.Subcategories, 1)
	assert.Equal(t, child.ID, detail.Subcategories[0].ID)

	rec, env = s.do(http.MethodDelete, "/api/categories/"+parent.ID.String(), nil, "", adminToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CATEGORY_HAS_CHILDREN", env.Code)

	rec, env = s.json(http.MethodPatch, "/api/categories/"+child.ID.String(), map[string]any{"parent": ""}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[handler.CategoryResponse](t, env.Data).Parent)

	rec, _ = s.do(http.MethodDelete, "/api/categories/"+parent.ID.String(), nil, "", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	customerToken, _ := s.signup("customer", "amara")
	rec, _ = s.json(http.MethodPost, "/api/categories", map[string]any{"name": "Snacks"}, customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/categories?select=name", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *env.Count)
}

func TestOrderRoutes(t *testing.T) {
	s := newTestServer(t)
	adminToken, storeID := marketplace(t, s)

	p1 := registerProduct(t, s, adminToken, storeID, "Plasters", "10", "0")
	p2 := registerProduct(t, s, adminToken, storeID, "Syrup", "25", "20")

	customerToken, customerID := s.signup("customer", "amara")

	rec, _ := s.json(http.MethodPost, "/api/orders", map[string]any{"store": storeID}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.json(http.MethodPost, "/api/orders", map[string]any{"store": storeID}, customerToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ORDER_ITEMS_REQUIRED", env.Code)

	rec, env = s.json(http.MethodPost, "/api/orders", map[string]any{
		"order_items": []map[string]any{{"item": p1.ID.String(), "quantity": 1}},
	}, customerToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "STORE_REQUIRED", env.Code)

	rec, env = s.json(http.MethodPost, "/api/orders", map[string]any{
		"store": storeID,
		"order_items": []map[string]any{
			{"item": p1.ID.String(), "quantity": 2},
			{"item": p2.ID.String(), "quantity": 1},
		},
		"shipping_address": "Plot 4, Kampala Road",
	}, customerToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[handler.OrderResponse](t, env.Data)
	assert.Equal(t, "40", order.Total.String())
	assert.Equal(t, "PENDING", order.Status)
	assert.Equal(t, customerID, order.User.String())
	orderPath := fmt.Sprintf("/api/orders/%s", order.ID)

	rec, env = s.do(http.MethodGet, orderPath, nil, "", customerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[handler.OrderDetailResponse](t, env.Data)
	require.Len(t, detail.OrderItems, 2)
	require.NotNil(t, detail.OrderItems[0].Product)
	assert.Equal(t, "Plasters", detail.OrderItems[0].Product.Name)
	require.NotNil(t, detail.UserInfo)
	assert.Equal(t, "amara", detail.UserInfo.Username)

	rec, env = s.json(http.MethodPut, orderPath, map[string]string{"payment_mode": "mobile_money"}, customerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "mobile_money", decode[handler.OrderResponse](t, env.Data).PaymentMode)

	rec, env = s.do(http.MethodPut, orderPath+"/status_update?status=completed", nil, "", customerToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", env.Code)

	rec, env = s.do(http.MethodPut, orderPath+"/status_update?status=processing", nil, "", customerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, string(entity.OrderStatusProcessing), decode[handler.OrderResponse](t, env.Data).Status)

	rec, env = s.do(http.MethodGet, "/api/orders?status=PROCESSING", nil, "", customerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, *env.Count)

	require.NoError(t, s.orderEventUC.RecordEvent(context.Background(), "m-1", &service.OrderEvent{
		Type: service.EventOrderPlaced, OrderID: order.ID.String(), Status: "PENDING", Total: "40",
	}))
	rec, env = s.do(http.MethodGet, orderPath+"/events", nil, "", customerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	trail := decode[[]handler.OrderEventResponse](t, env.Data)
	require.Len(t, trail, 1)
	assert.Equal(t, service.EventOrderPlaced, trail[0].Type)

	rec, _ = s.do(http.MethodDelete, orderPath, nil, "", customerToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, orderPath, nil, "", customerToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Code)
}

func TestPlaceOrder_CartShapeWithStoreQuery(t *testing.T) {
	s := newTestServer(t)
	adminToken, storeID := marketplace(t, s)

	p1 := registerProduct(t, s, adminToken, storeID, "Plasters", "10", "0")
	p2 := registerProduct(t, s, adminToken, storeID, "Syrup", "25", "20")
	customerToken, _ := s.signup("customer", "amara")

	rec, env := s.json(http.MethodPost, "/api/orders?store="+storeID, map[string]any{
		"items": []map[string]any{
			{"id": p1.ID.String(), "quantity": 2},
			{"id": p2.ID.String(), "quantity": 1},
		},
	}, customerToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[handler.OrderResponse](t, env.Data)
	assert.Equal(t, "40", order.Total.String())
	assert.Equal(t, storeID, order.Store.String())

	rec, env = s.json(http.MethodPost, "/api/orders?store="+storeID, map[string]any{
		"items": []map[string]any{{"id": "not-a-uuid", "quantity": 1}},
	}, customerToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)
}
