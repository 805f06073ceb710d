package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line rendered by the UI.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
	StoreName string          `json:"store_name"`
}

// Key implements engine.Item.
func (i Item) Key() uuid.UUID { return i.ProductID }

// Subtotal returns price times quantity without presentation rounding.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemInput is the UI payload for adding a product to the cart.
type ItemInput struct {
	ProductID uuid.UUID       `validate:"required"`
	Title     string          `validate:"required"`
	Price     decimal.Decimal `validate:"-"`
	ImageURL  string          `validate:"omitempty,url"`
	StoreName string          `validate:"required"`
}

func (in ItemInput) toItem(quantity int) Item {
	return Item{
		ProductID: in.ProductID,
		Title:     in.Title,
		Price:     in.Price,
		ImageURL:  in.ImageURL,
		Quantity:  quantity,
		StoreName: in.StoreName,
	}
}
