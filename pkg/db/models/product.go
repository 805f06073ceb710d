package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog record rows are joined against at read time.
// Prices and metadata live here only; rows never carry denormalized copies.
type Product struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string           `gorm:"column:title;not null"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice   *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	ImageURL        string           `gorm:"column:image_url"`
	Rating          float64          `gorm:"column:rating;not null;default:0"`
	ReviewCount     int              `gorm:"column:review_count;not null;default:0"`
	StoreName       string           `gorm:"column:store_name;not null"`
	FreeShipping    bool             `gorm:"column:free_shipping;not null;default:false"`
	InstallmentText *string          `gorm:"column:installment_text"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
