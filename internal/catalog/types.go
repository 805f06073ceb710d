package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the read-time projection of a catalog product. Rows in the
// remote store only reference products; everything here is resolved fresh on
// every load so price changes are reflected without cache invalidation.
type Summary struct {
	ID              uuid.UUID
	Title           string
	Price           decimal.Decimal
	OriginalPrice   *decimal.Decimal
	ImageURL        string
	Rating          float64
	ReviewCount     int
	StoreName       string
	FreeShipping    bool
	InstallmentText *string
}

// DiscountPercent derives the discount from the original price. Nil when the
// product is not discounted.
func (s Summary) DiscountPercent() *int {
	if s.OriginalPrice == nil || !s.OriginalPrice.IsPositive() {
		return nil
	}
	if s.Price.GreaterThanOrEqual(*s.OriginalPrice) {
		return nil
	}
	ratio := s.Price.Div(*s.OriginalPrice)
	percent := int(decimal.NewFromInt(1).Sub(ratio).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	if percent <= 0 {
		return nil
	}
	return &percent
}
