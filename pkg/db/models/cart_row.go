package models

import (
	"time"

	"github.com/google/uuid"
)

// CartRow links a user to a carted product with an absolute quantity.
type CartRow struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:cart_rows_user_id_idx;uniqueIndex:cart_rows_user_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_rows_user_product_key"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the legacy table name used by the migrations.
func (CartRow) TableName() string {
	return "cart_items"
}
