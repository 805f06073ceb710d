package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/peakshops/cartsync/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates cart row persistence for one identity at a time.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart row repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListRows returns every cart row for the user, oldest first.
func (r *Repository) ListRows(ctx context.Context, userID uuid.UUID) ([]models.CartRow, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	var rows []models.CartRow
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

// UpsertRow writes the absolute quantity for (user, product). Increments are
// computed by the coordinator before calling here; the row store itself is
// last-write-wins.
func (r *Repository) UpsertRow(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if quantity < 1 {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO cart_items (id, user_id, product_id, quantity) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
			uuid.New(), userID, productID, quantity).
		Error
}

// DeleteRow removes the (user, product) row if it exists.
func (r *Repository) DeleteRow(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartRow{}).
		Error
}

// DeleteAll removes every cart row for the user.
func (r *Repository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartRow{}).
		Error
}
