package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteRow links a user to a liked product. Presence-only.
type FavoriteRow struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:favorite_items_user_id_idx;uniqueIndex:favorite_items_user_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:favorite_items_user_product_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the legacy table name used by the migrations.
func (FavoriteRow) TableName() string {
	return "favorite_items"
}
