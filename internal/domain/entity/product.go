package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Pricing holds the list price and discount percent of a product.
type Pricing struct {
	Price    decimal.Decimal
	Discount decimal.Decimal // Percent, 0..100.
	Currency string
}

// ActualPrice is the price after discount: price*(100-discount)/100 when a
// discount is set, the list price otherwise.
func (p Pricing) ActualPrice() decimal.Decimal {
	if !p.Discount.IsPositive() {
		return p.Price
	}

	return p.Price.Mul(hundred.Sub(p.Discount)).Div(hundred)
}

// ValidDiscount reports whether d is a percent in [0, 100].
func ValidDiscount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

// Packaging describes how a product is packed.
type Packaging struct {
	Size     string
	Quantity int
	Weight   string
}

// Product is an item listed by a store.
type Product struct {
	ID           uuid.UUID
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
	Packaging    Packaging
	Images       []Image
	Pricing      Pricing
	Rating       float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CoverImage returns the first image, if any.
func (p *Product) CoverImage() *Image {
	if len(p.Images) == 0 {
		return nil
	}

	return &p.Images[0]
}
