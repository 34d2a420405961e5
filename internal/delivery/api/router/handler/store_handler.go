package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"storefront/config"
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/infra/media"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"go.uber.org/fx"
)

// StoreHandlerParams holds dependencies for StoreHandler, injected by Fx.
type StoreHandlerParams struct {
	fx.In

	StoreUC usecase.StoreUsecase
	Stager  *media.Stager
	Config  *config.Config
	Logger  *slog.Logger
}

// StoreHandler serves store management and discovery.
type StoreHandler struct {
	storeUC usecase.StoreUsecase
	stager  *media.Stager
	planner planner
	logger  *slog.Logger
}

// NewStoreHandler is the constructor for StoreHandler
func NewStoreHandler(params StoreHandlerParams) *StoreHandler {
	return &StoreHandler{
		storeUC: params.StoreUC,
		stager:  params.Stager,
		planner: newPlanner(params.Config),
		logger:  params.Logger,
	}
}

// AddressRequest is shared by store create and patch.
type AddressRequest struct {
	State           string `json:"state" form:"state" validate:"max=64"`
	City            string `json:"city" form:"city" validate:"max=64"`
	Pincode         string `json:"pincode" form:"pincode" validate:"max=16"`
	Street          string `json:"street" form:"street" validate:"max=128"`
	ApartmentNumber string `json:"apartment_number" form:"apartment_number" validate:"max=32"`
	Landmark        string `json:"landmark" form:"address_landmark" validate:"max=128"`
}

func (r AddressRequest) toEntity() entity.StoreAddress {
	return entity.StoreAddress{
		State:           r.State,
		City:            r.City,
		Pincode:         r.Pincode,
		Street:          r.Street,
		ApartmentNumber: r.ApartmentNumber,
		Landmark:        r.Landmark,
	}
}

// CreateStoreRequest is sent as JSON or as a multipart form carrying cover_image.
// Forms carry the address fields at the top level and the location as lat and lng.
type CreateStoreRequest struct {
	Name            string           `json:"name" form:"name" validate:"required,max=128"`
	Slug            string           `json:"slug" form:"slug" validate:"max=128"`
	Email           string           `json:"email" form:"email" validate:"required,email"`
	Description     string           `json:"description" form:"description" validate:"max=2000"`
	Phones          []string         `json:"phones" form:"phones" validate:"max=5,dive,min=5,max=20"`
	Website         string           `json:"website" form:"website" validate:"omitempty,url"`
	AccountNumber   string           `json:"account_number" form:"account_number" validate:"max=64"`
	LicenseNumber   string           `json:"license_number" form:"license_number" validate:"max=64"`
	Landmark        string           `json:"landmark" form:"landmark" validate:"max=128"`
	PhysicalAddress string           `json:"physical_address" form:"physical_address" validate:"max=256"`
	Address         AddressRequest   `json:"address"`
	Location        *LocationRequest `json:"location"`
	LiveTracking    bool             `json:"live_tracking" form:"live_tracking"`
}

type UpdateStoreRequest struct {
	Name            *string         `json:"name" validate:"omitempty,max=128"`
	Slug            *string         `json:"slug" validate:"omitempty,max=128"`
	Email           *string         `json:"email" validate:"omitempty,email"`
	Description     *string         `json:"description" validate:"omitempty,max=2000"`
	Phones          []string        `json:"phones" validate:"omitempty,max=5,dive,min=5,max=20"`
	Website         *string         `json:"website" validate:"omitempty,url"`
	AccountNumber   *string         `json:"account_number" validate:"omitempty,max=64"`
	LicenseNumber   *string         `json:"license_number" validate:"omitempty,max=64"`
	Landmark        *string         `json:"landmark" validate:"omitempty,max=128"`
	PhysicalAddress *string         `json:"physical_address" validate:"omitempty,max=256"`
	Address         *AddressRequest `json:"address"`
	LiveTracking    *bool           `json:"live_tracking"`
	Status          *string         `json:"status" validate:"omitempty,oneof=ACTIVE SUSPENDED"`
}

type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

type SearchRequest struct {
	Q string `json:"q" validate:"required,max=128"`
}

// ListStores handles GET /stores
func (h *StoreHandler) ListStores(c echo.Context) error {
	plan, err := h.planner.parse(c, query.Stores)
	if err != nil {
		return err
	}

	page, err := h.storeUC.ListStores(c.Request().Context(), plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newStore)
}

// SearchStores handles POST /stores/search; paging and selection come from the query string.
func (h *StoreHandler) SearchStores(c echo.Context) error {
	var req SearchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	plan, err := h.planner.parse(c, query.Stores)
	if err != nil {
		return err
	}

	page, err := h.storeUC.SearchStores(c.Request().Context(), req.Q, plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newStore)
}

// NearbyStores handles GET /stores/nearby?distance=&lat=&lng= (miles). The
// remaining query keys filter, select and page like any store listing.
func (h *StoreHandler) NearbyStores(c echo.Context) error {
	var (
		input usecase.NearbyInput
		err   error
	)
	if input.Lat, err = floatParam(c, "lat"); err != nil {
		return err
	}
	if input.Lng, err = floatParam(c, "lng"); err != nil {
		return err
	}
	if input.Distance, err = floatParam(c, "distance"); err != nil {
		return err
	}

	plan, err := h.planner.parse(c, query.Stores, "distance", "lat", "lng")
	if err != nil {
		return err
	}

	page, err := h.storeUC.NearbyStores(c.Request().Context(), input, plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newNearbyStore)
}

// RecommendedStores handles GET /stores/recommended
func (h *StoreHandler) RecommendedStores(c echo.Context) error {
	plan, err := h.planner.parse(c, query.Stores)
	if err != nil {
		return err
	}

	page, err := h.storeUC.RecommendedStores(c.Request().Context(), plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newStore)
}

// CreateStore handles POST /stores/create?createdBy=<id>. The owner defaults to the caller.
func (h *StoreHandler) CreateStore(c echo.Context) error {
	ownerID, err := h.ownerID(c)
	if err != nil {
		return err
	}

	var req CreateStoreRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cover, err := stageOne(c, h.stager, "cover_image")
	if err != nil {
		return err
	}
	defer media.Cleanup(cover)

	input := &usecase.CreateStoreInput{
		OwnerID:         ownerID,
		Name:            req.Name,
		Slug:            req.Slug,
		Email:           req.Email,
		Description:     req.Description,
		Phones:          req.Phones,
		Website:         req.Website,
		AccountNumber:   req.AccountNumber,
		LicenseNumber:   req.LicenseNumber,
		Landmark:        req.Landmark,
		PhysicalAddress: req.PhysicalAddress,
		Address:         req.Address.toEntity(),
		LiveTracking:    req.LiveTracking,
		CoverImagePath:  cover,
	}
	if input.Location, err = formLocation(c, req.Location); err != nil {
		return err
	}

	store, err := h.storeUC.CreateStore(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusCreated, "Store created", newStore(store))
}

func (h *StoreHandler) ownerID(c echo.Context) (uuid.UUID, error) {
	if raw := c.QueryParam("createdBy"); raw != "" {
		return parseUUID(raw, "createdBy")
	}

	id, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthorized
	}

	return id, nil
}

// GetStore handles GET /stores/:id?with_inventory=true
func (h *StoreHandler) GetStore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	withInventory, _ := strconv.ParseBool(c.QueryParam("with_inventory"))

	detail, err := h.storeUC.GetStore(c.Request().Context(), id, withInventory)
	if err != nil {
		return err
	}

	out := StoreDetailResponse{StoreResponse: newStore(detail.Store)}
	if withInventory {
		out.Inventory = newProducts(detail.Inventory)
	}

	return response.Success(c, http.StatusOK, out)
}

// SearchInventory handles GET /stores/:id/inventory/search?q=
func (h *StoreHandler) SearchInventory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	plan, err := h.planner.parse(c, query.Products, "q")
	if err != nil {
		return err
	}

	page, err := h.storeUC.SearchInventory(c.Request().Context(), id, c.QueryParam("q"), plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newProduct)
}

// UpdateStore handles PATCH /stores/:id
func (h *StoreHandler) UpdateStore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateStoreRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := &usecase.UpdateStoreInput{
		Name:            req.Name,
		Slug:            req.Slug,
		Email:           req.Email,
		Description:     req.Description,
		Phones:          req.Phones,
		Website:         req.Website,
		AccountNumber:   req.AccountNumber,
		LicenseNumber:   req.LicenseNumber,
		Landmark:        req.Landmark,
		PhysicalAddress: req.PhysicalAddress,
		LiveTracking:    req.LiveTracking,
	}
	if req.Address != nil {
		addr := req.Address.toEntity()
		input.Address = &addr
	}
	if req.Status != nil {
		status := entity.StoreStatus(*req.Status)
		input.Status = &status
	}

	store, err := h.storeUC.UpdateStore(c.Request().Context(), id, input)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Store updated", newStore(store))
}

// UpdateLocation handles PUT /stores/:id/location
func (h *StoreHandler) UpdateLocation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req LocationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	store, err := h.storeUC.UpdateLocation(c.Request().Context(), id, orb.Point{*req.Lng, *req.Lat})
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Store location updated", newStore(store))
}

// DeleteStore handles DELETE /stores/:id
func (h *StoreHandler) DeleteStore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	store, err := h.storeUC.DeleteStore(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Store deleted", newStore(store))
}

// AddWorker handles POST /stores/:id/addWorker?account_type=store_worker
func (h *StoreHandler) AddWorker(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	avatar, err := stageOne(c, h.stager, "avatar")
	if err != nil {
		return err
	}
	defer media.Cleanup(avatar)

	accountType := entity.AccountType(c.QueryParam("account_type"))
	out, err := h.storeUC.AddWorker(c.Request().Context(), &usecase.AddWorkerInput{
		StoreID: id,
		Worker:  *req.toInput(accountType, avatar),
	})
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusCreated, "Worker added", map[string]any{
		"store":  newStore(out.Store),
		"worker": newUser(out.Worker),
	})
}

// QRCode handles GET /stores/:id/qr
func (h *StoreHandler) QRCode(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	png, err := h.storeUC.QRCode(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func floatParam(c echo.Context, name string) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, domainerrors.ErrValidationFailed.WithDetailsf("%s is required", name)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domainerrors.ErrValidationFailed.WithDetailsf("%s must be a number", name)
	}

	return v, nil
}

// formLocation returns the JSON location, or the lat/lng fields of a form. No location is nil.
func formLocation(c echo.Context, loc *LocationRequest) (*orb.Point, error) {
	if loc != nil {
		return &orb.Point{*loc.Lng, *loc.Lat}, nil
	}

	rawLat, rawLng := c.FormValue("lat"), c.FormValue("lng")
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}

	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lng, errLng := strconv.ParseFloat(rawLng, 64)
	if errLat != nil || errLng != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("lat and lng must both be numbers")
	}

	return &orb.Point{lng, lat}, nil
}
