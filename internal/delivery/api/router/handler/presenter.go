package handler

import (
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"
)

// Response shapes. JSON keys match the names accepted by select=.

type ImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func newImage(img *entity.Image) *ImageResponse {
	if img == nil {
		return nil
	}

	return &ImageResponse{ID: img.ID, URL: img.URL}
}

type UserResponse struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Username    string         `json:"username"`
	Role        string         `json:"role"`
	AccountType string         `json:"account_type"`
	FirstName   string         `json:"first_name,omitempty"`
	LastName    string         `json:"last_name,omitempty"`
	Phones      []string       `json:"phones"`
	Avatar      *ImageResponse `json:"avatar,omitempty"`
	City        string         `json:"city,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// newUser never exposes the password hash.
func newUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}

	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        u.Role.String(),
		AccountType: string(u.AccountType),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phones:      nonNil(u.Phones),
		Avatar:      newImage(u.Avatar),
		City:        u.City,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type AddressResponse struct {
	State           string `json:"state,omitempty"`
	City            string `json:"city,omitempty"`
	Pincode         string `json:"pincode,omitempty"`
	Street          string `json:"street,omitempty"`
	ApartmentNumber string `json:"apartment_number,omitempty"`
	Landmark        string `json:"landmark,omitempty"`
}

type StoreResponse struct {
	ID              uuid.UUID         `json:"id"`
	Owner           uuid.UUID         `json:"owner"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Email           string            `json:"email"`
	Description     string            `json:"description,omitempty"`
	Phones          []string          `json:"phones"`
	Website         string            `json:"website,omitempty"`
	CoverImage      *ImageResponse    `json:"cover_image,omitempty"`
	AccountNumber   string            `json:"account_number,omitempty"`
	LicenseNumber   string            `json:"license_number,omitempty"`
	Landmark        string            `json:"landmark,omitempty"`
	PhysicalAddress string            `json:"physical_address,omitempty"`
	Address         AddressResponse   `json:"address"`
	Location        *geojson.Geometry `json:"location"`
	LiveTracking    bool              `json:"live_tracking"`
	AverageRating   float64           `json:"average_rating"`
	Status          string            `json:"status"`
	Workers         []uuid.UUID       `json:"workers"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func newStore(s *entity.Store) *StoreResponse {
	if s == nil {
		return nil
	}

	return &StoreResponse{
		ID:              s.ID,
		Owner:           s.OwnerID,
		Name:            s.Name,
		Slug:            s.Slug,
		Email:           s.Email,
		Description:     s.Description,
		Phones:          nonNil(s.Phones),
		Website:         s.Website,
		CoverImage:      newImage(s.CoverImage),
		AccountNumber:   s.AccountNumber,
		LicenseNumber:   s.LicenseNumber,
		Landmark:        s.Landmark,
		PhysicalAddress: s.PhysicalAddress,
		Address: AddressResponse{
			State:           s.Address.State,
			City:            s.Address.City,
			Pincode:         s.Address.Pincode,
			Street:          s.Address.Street,
			ApartmentNumber: s.Address.ApartmentNumber,
			Landmark:        s.Address.Landmark,
		},
		Location:      geojson.NewGeometry(s.Location),
		LiveTracking:  s.LiveTracking,
		AverageRating: s.AverageRating,
		Status:        string(s.Status),
		Workers:       nonNil(s.WorkerIDs),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// StoreSummary is embedded in product and order details.
type StoreSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func newStoreSummary(s *entity.Store) *StoreSummary {
	if s == nil {
		return nil
	}

	return &StoreSummary{ID: s.ID, Name: s.Name, Email: s.Email}
}

type StoreDetailResponse struct {
	*StoreResponse
	Inventory []*ProductResponse `json:"inventory,omitempty"`
}

type NearbyStoreResponse struct {
	*StoreResponse
	Distance float64 `json:"distance"`
}

func newNearbyStore(n *usecase.NearbyStore) NearbyStoreResponse {
	return NearbyStoreResponse{StoreResponse: newStore(n.Store), Distance: n.Distance}
}

type PricingResponse struct {
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount"`
	Currency string          `json:"currency"`
}

type PackagingResponse struct {
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Weight   string `json:"weight,omitempty"`
}

type ProductResponse struct {
	ID           uuid.UUID         `json:"id"`
	Store        uuid.UUID         `json:"store"`
	Name         string            `json:"name"`
	Tradename    string            `json:"tradename,omitempty"`
	CatchPhrase  string            `json:"catch_phrase,omitempty"`
	Description  string            `json:"description,omitempty"`
	Directions   string            `json:"directions,omitempty"`
	Prescription string            `json:"prescription,omitempty"`
	Caution      string            `json:"caution,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Tags         []string          `json:"tags"`
	Categories   []uuid.UUID       `json:"categories"`
	Packaging    PackagingResponse `json:"packaging"`
	Images       []ImageResponse   `json:"images"`
	Image        *ImageResponse    `json:"image,omitempty"`
	Pricing      PricingResponse   `json:"pricing"`
	ActualPrice  decimal.Decimal   `json:"actual_price"`
	Rating       float64           `json:"rating"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func newProduct(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}

	images := make([]ImageResponse, len(p.Images))
	for i, img := range p.Images {
		images[i] = ImageResponse{ID: img.ID, URL: img.URL}
	}

	out := &ProductResponse{
		ID:           p.ID,
		Store:        p.StoreID,
		Name:         p.Name,
		Tradename:    p.Tradename,
		CatchPhrase:  p.CatchPhrase,
		Description:  p.Description,
		Directions:   p.Directions,
		Prescription: p.Prescription,
		Caution:      p.Caution,
		Manufacturer: p.Manufacturer,
		Tags:         nonNil(p.Tags),
		Categories:   nonNil(p.CategoryIDs),
		Packaging: PackagingResponse{
			Size:     p.Packaging.Size,
			Quantity: p.Packaging.Quantity,
			Weight:   p.Packaging.Weight,
		},
		Images: images,
		Pricing: PricingResponse{
			Price:    p.Pricing.Price,
			Discount: p.Pricing.Discount,
			Currency: p.Pricing.Currency,
		},
		ActualPrice: p.Pricing.ActualPrice(),
		Rating:      p.Rating,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if len(images) > 0 {
		out.Image = &images[0]
	}

	return out
}

func newProducts(products []*entity.Product) []*ProductResponse {
	out := make([]*ProductResponse, len(products))
	for i, p := range products {
		out[i] = newProduct(p)
	}

	return out
}

type ProductDetailResponse struct {
	*ProductResponse
	StoreInfo *StoreSummary `json:"store_info,omitempty"`
}

type CategoryResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parent      *uuid.UUID     `json:"parent"`
	Icon        string         `json:"icon,omitempty"`
	Image       *ImageResponse `json:"image,omitempty"`
	Featured    bool           `json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func newCategory(c *entity.Category) *CategoryResponse {
	if c == nil {
		return nil
	}

	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Parent:      c.ParentID,
		Icon:        c.Icon,
		Image:       newImage(c.Image),
		Featured:    c.Featured,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CategoryDetailResponse struct {
	*CategoryResponse
	Subcategories []*CategoryResponse `json:"subcategories"`
}

func newCategoryDetail(d *usecase.CategoryDetail) *CategoryDetailResponse {
	subs := make([]*CategoryResponse, len(d.Subcategories))
	for i, c := range d.Subcategories {
		subs[i] = newCategory(c)
	}

	return &CategoryDetailResponse{CategoryResponse: newCategory(d.Category), Subcategories: subs}
}

type OrderItemResponse struct {
	ID       uuid.UUID        `json:"id"`
	Item     uuid.UUID        `json:"item"`
	Quantity int              `json:"quantity"`
	Position int              `json:"position"`
	Product  *ProductResponse `json:"product,omitempty"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	User            uuid.UUID           `json:"user"`
	Store           uuid.UUID           `json:"store"`
	OrderItems      []OrderItemResponse `json:"order_items"`
	Total           decimal.Decimal     `json:"total"`
	Currency        string              `json:"currency"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address,omitempty"`
	PaymentMode     string              `json:"payment_mode,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func newOrder(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}

	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:       item.ID,
			Item:     item.ProductID,
			Quantity: item.Quantity,
			Position: item.Position,
			Product:  newProduct(item.Product),
		}
	}

	return &OrderResponse{
		ID:              o.ID,
		User:            o.UserID,
		Store:           o.StoreID,
		OrderItems:      items,
		Total:           o.Total,
		Currency:        o.Currency,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		PaymentMode:     o.PaymentMode,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// UserSummary is the buyer embedded in an order detail.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
}

type OrderDetailResponse struct {
	*OrderResponse
	UserInfo  *UserSummary  `json:"user_info,omitempty"`
	StoreInfo *StoreSummary `json:"store_info,omitempty"`
}

func newOrderDetail(d *usecase.OrderDetail) *OrderDetailResponse {
	out := &OrderDetailResponse{
		OrderResponse: newOrder(d.Order),
		StoreInfo:     newStoreSummary(d.Store),
	}
	if d.User != nil {
		out.UserInfo = &UserSummary{
			ID:        d.User.ID,
			Username:  d.User.Username,
			Email:     d.User.Email,
			FirstName: d.User.FirstName,
			LastName:  d.User.LastName,
		}
	}

	return out
}

type OrderEventResponse struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Status     string          `json:"status,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	ReceivedAt time.Time       `json:"received_at"`
}

func newOrderEvent(l *entity.OrderEventLog) OrderEventResponse {
	return OrderEventResponse{
		ID:         l.ID,
		Type:       l.Type,
		Status:     string(l.Status),
		Total:      l.Total,
		Currency:   l.Currency,
		RequestID:  l.RequestID,
		OccurredAt: l.OccurredAt,
		ReceivedAt: l.ReceivedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
