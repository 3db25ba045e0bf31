package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits a price keeps (DECIMAL(10,2)).
const PriceScale = 2

// maxPrice is the first value that no longer fits DECIMAL(10,2).
var maxPrice = decimal.New(1, 8)

// Product is a listing published by a farmer.
type Product struct {
	ID          int64 // Store-assigned sequential id.
	Name        string
	Description *string
	Price       decimal.Decimal
	Unit        *string
	Category    *string
	ImageURL    *string
	FarmerID    uuid.UUID // Owning user. Immutable after creation.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizePrice rounds a price to the stored scale and checks its range.
func NormalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, errInvalidValue("price", "must not be negative")
	}

	rounded := price.Round(PriceScale)
	if rounded.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, errInvalidValue("price", "must be less than 100000000")
	}

	return rounded, nil
}
