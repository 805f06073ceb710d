package favorites

import (
	"github.com/google/uuid"
	"github.com/peakshops/cartsync/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is one saved product. Presence-only: a product is either saved once
// or not at all.
type Item struct {
	ProductID       uuid.UUID        `json:"product_id"`
	Title           string           `json:"title"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL        string           `json:"image_url"`
	DiscountPercent *int             `json:"discount_percent,omitempty"`
	Rating          float64          `json:"rating"`
	ReviewCount     int              `json:"review_count"`
	StoreName       string           `json:"store_name"`
	FreeShipping    bool             `json:"free_shipping"`
	InstallmentText *string          `json:"installment_text,omitempty"`
}

// Key implements engine.Item.
func (i Item) Key() uuid.UUID { return i.ProductID }

func fromSummary(summary catalog.Summary) Item {
	return Item{
		ProductID:       summary.ID,
		Title:           summary.Title,
		Price:           summary.Price,
		OriginalPrice:   summary.OriginalPrice,
		ImageURL:        summary.ImageURL,
		DiscountPercent: summary.DiscountPercent(),
		Rating:          summary.Rating,
		ReviewCount:     summary.ReviewCount,
		StoreName:       summary.StoreName,
		FreeShipping:    summary.FreeShipping,
		InstallmentText: summary.InstallmentText,
	}
}

// ItemInput is the UI payload for saving a product.
type ItemInput struct {
	ProductID       uuid.UUID        `validate:"required"`
	Title           string           `validate:"required"`
	Price           decimal.Decimal  `validate:"-"`
	OriginalPrice   *decimal.Decimal `validate:"-"`
	ImageURL        string           `validate:"omitempty,url"`
	Rating          float64          `validate:"gte=0,lte=5"`
	ReviewCount     int              `validate:"gte=0"`
	StoreName       string           `validate:"required"`
	FreeShipping    bool             `validate:"-"`
	InstallmentText *string          `validate:"-"`
}

func (in ItemInput) toItem() Item {
	summary := catalog.Summary{
		ID:            in.ProductID,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
	}
	return Item{
		ProductID:       in.ProductID,
		Title:           in.Title,
		Price:           in.Price,
		OriginalPrice:   in.OriginalPrice,
		ImageURL:        in.ImageURL,
		DiscountPercent: summary.DiscountPercent(),
		Rating:          in.Rating,
		ReviewCount:     in.ReviewCount,
		StoreName:       in.StoreName,
		FreeShipping:    in.FreeShipping,
		InstallmentText: in.InstallmentText,
	}
}
