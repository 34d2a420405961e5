package handler

import (
	"log/slog"
	"net/http"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"
	"storefront/internal/infra/media"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Stager    *media.Stager
	Config    *config.Config
	Logger    *slog.Logger
}

type ProductHandler struct {
	productUC usecase.ProductUsecase
	stager    *media.Stager
	planner   planner
	maxImages int
	logger    *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC: params.ProductUC,
		stager:    params.Stager,
		planner:   newPlanner(params.Config),
		maxImages: params.Config.Media.MaxImages,
		logger:    params.Logger,
	}
}

type PackagingRequest struct {
	Size     string `json:"size" form:"size" validate:"max=64"`
	Quantity int    `json:"quantity" form:"quantity" validate:"gte=0"`
	Weight   string `json:"weight" form:"weight" validate:"max=64"`
}

func (r PackagingRequest) toEntity() entity.Packaging {
	return entity.Packaging{Size: r.Size, Quantity: r.Quantity, Weight: r.Weight}
}

// CreateProductRequest is sent as JSON to POST /products or as a multipart
// form with images to POST /products/register.
type CreateProductRequest struct {
	Store        string           `json:"store" form:"store"`
	Name         string           `json:"name" form:"name" validate:"required,max=128"`
	Tradename    string           `json:"tradename" form:"tradename" validate:"max=128"`
	CatchPhrase  string           `json:"catch_phrase" form:"catch_phrase" validate:"max=256"`
	Description  string           `json:"description" form:"description" validate:"max=4000"`
	Directions   string           `json:"directions" form:"directions" validate:"max=2000"`
	Prescription string           `json:"prescription" form:"prescription" validate:"max=2000"`
	Caution      string           `json:"caution" form:"caution" validate:"max=2000"`
	Manufacturer string           `json:"manufacturer" form:"manufacturer" validate:"max=128"`
	Tags         []string         `json:"tags" form:"tags" validate:"max=20,dive,max=32"`
	Categories   []string         `json:"categories" form:"categories" validate:"max=20"`
	Packaging    PackagingRequest `json:"packaging"`
	Price        decimal.Decimal  `json:"price" form:"price"`
	Discount     decimal.Decimal  `json:"discount" form:"discount"`
	Currency     string           `json:"currency" form:"currency" validate:"omitempty,len=3,alpha"`
}

type UpdateProductRequest struct {
	Name         *string           `json:"name" validate:"omitempty,max=128"`
	Tradename    *string           `json:"tradename" validate:"omitempty,max=128"`
	CatchPhrase  *string           `json:"catch_phrase" validate:"omitempty,max=256"`
	Description  *string           `json:"description" validate:"omitempty,max=4000"`
	Directions   *string           `json:"directions" validate:"omitempty,max=2000"`
	Prescription *string           `json:"prescription" validate:"omitempty,max=2000"`
	Caution      *string           `json:"caution" validate:"omitempty,max=2000"`
	Manufacturer *string           `json:"manufacturer" validate:"omitempty,max=128"`
	Tags         []string          `json:"tags" validate:"omitempty,max=20,dive,max=32"`
	Packaging    *PackagingRequest `json:"packaging"`
	Price        *decimal.Decimal  `json:"price"`
	Discount     *decimal.Decimal  `json:"discount"`
	Currency     *string           `json:"currency" validate:"omitempty,len=3,alpha"`
}

type DiscountRequest struct {
	Discount *decimal.Decimal `json:"discount" validate:"required"`
}

type CategoriesRequest struct {
	Categories []string `json:"categories" validate:"max=20"`
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	plan, err := h.planner.parse(c, query.Products)
	if err != nil {
		return err
	}

	page, err := h.productUC.ListProducts(c.Request().Context(), plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newProduct)
}

// CreateProduct handles POST /products; the store comes from the body.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	return h.create(c, req.Store, &req, nil)
}

// RegisterProduct handles POST /products/register?store=<id> with up to maxImages images.
func (h *ProductHandler) RegisterProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	images, err := stageFiles(c, h.stager, "images", h.maxImages)
	if err != nil {
		return err
	}
	defer media.Cleanup(images...)

	storeRef := c.QueryParam("store")
	if storeRef == "" {
		storeRef = req.Store
	}

	return h.create(c, storeRef, &req, images)
}

func (h *ProductHandler) create(c echo.Context, storeRef string, req *CreateProductRequest, images []string) error {
	storeID, err := parseUUID(storeRef, "store")
	if err != nil {
		return err
	}

	categoryIDs, err := parseUUIDs(req.Categories, "categories")
	if err != nil {
		return err
	}

	product, err := h.productUC.CreateProduct(c.Request().Context(), &usecase.CreateProductInput{
		StoreID:      storeID,
		Name:         req.Name,
		Tradename:    req.Tradename,
		CatchPhrase:  req.CatchPhrase,
		Description:  req.Description,
		Directions:   req.Directions,
		Prescription: req.Prescription,
		Caution:      req.Caution,
		Manufacturer: req.Manufacturer,
		Tags:         req.Tags,
		CategoryIDs:  categoryIDs,
		Packaging:    req.Packaging.toEntity(),
		Price:        req.Price,
		Discount:     req.Discount,
		Currency:     req.Currency,
		ImagePaths:   images,
	})
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusCreated, "Product created", newProduct(product))
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	detail, err := h.productUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, ProductDetailResponse{
		ProductResponse: newProduct(detail.Product),
		StoreInfo:       newStoreSummary(detail.Store),
	})
}

// UpdateProduct handles PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := &usecase.UpdateProductInput{
		Name:         req.Name,
		Tradename:    req.Tradename,
		CatchPhrase:  req.CatchPhrase,
		Description:  req.Description,
		Directions:   req.Directions,
		Prescription: req.Prescription,
		Caution:      req.Caution,
		Manufacturer: req.Manufacturer,
		Tags:         req.Tags,
		Price:        req.Price,
		Discount:     req.Discount,
		Currency:     req.Currency,
	}
	if req.Packaging != nil {
		pkg := req.Packaging.toEntity()
		input.Packaging = &pkg
	}

	product, err := h.productUC.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Product updated", newProduct(product))
}

// ChangeDiscount handles PUT /products/:id/change-discount
func (h *ProductHandler) ChangeDiscount(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req DiscountRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.productUC.ChangeDiscount(c.Request().Context(), id, *req.Discount)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Discount updated", newProduct(product))
}

// SetCategories handles PUT /products/:id/categories
func (h *ProductHandler) SetCategories(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req CategoriesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	categoryIDs, err := parseUUIDs(req.Categories, "categories")
	if err != nil {
		return err
	}

	product, err := h.productUC.SetCategories(c.Request().Context(), id, categoryIDs)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Categories updated", newProduct(product))
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	product, err := h.productUC.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Product deleted", newProduct(product))
}
