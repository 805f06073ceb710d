package favorites

import (
	"context"

	"github.com/google/uuid"
	"github.com/peakshops/cartsync/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates favorite row persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListRows returns every favorite row for the user, oldest first.
func (r *Repository) ListRows(ctx context.Context, userID uuid.UUID) ([]models.FavoriteRow, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	var rows []models.FavoriteRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AddRow inserts a favorite entry and ignores duplicates. Saving a product
// twice must not create a second row.
func (r *Repository) AddRow(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorite_items (id, user_id, product_id) VALUES (?, ?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`,
			uuid.New(), userID, productID).
		Error
}

// DeleteRow removes the (user, product) row if it exists.
func (r *Repository) DeleteRow(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.FavoriteRow{}).
		Error
}

// DeleteAll removes every favorite row for the user.
func (r *Repository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.FavoriteRow{}).
		Error
}
