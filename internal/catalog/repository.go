package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/peakshops/cartsync/pkg/db/models"
	"gorm.io/gorm"
)

// Resolver resolves product references carried by remote rows.
type Resolver interface {
	Resolve(ctx context.Context, productID uuid.UUID) (*Summary, error)
	ResolveMany(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]Summary, error)
}

const defaultResolveBatchSize = 200

// Repository resolves catalog products from the shared database.
type Repository struct {
	db        *gorm.DB
	batchSize int
}

// NewRepository constructs a catalog repository bound to the provided gorm
// DB. batchSize caps the IN clause of batch lookups; values at or below zero
// fall back to the default.
func NewRepository(db *gorm.DB, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = defaultResolveBatchSize
	}
	return &Repository{db: db, batchSize: batchSize}
}

// Resolve loads a single active product. Returns gorm.ErrRecordNotFound when
// the product is missing or inactive.
func (r *Repository) Resolve(ctx context.Context, productID uuid.UUID) (*Summary, error) {
	if productID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	var record models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&record).
		Error
	if err != nil {
		return nil, err
	}

	summary := toSummary(record)
	return &summary, nil
}

// ResolveMany loads all resolvable products among the given ids, querying in
// batches. Missing or inactive products are simply absent from the result;
// callers drop the rows that reference them.
func (r *Repository) ResolveMany(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]Summary, error) {
	result := make(map[uuid.UUID]Summary, len(productIDs))

	for start := 0; start < len(productIDs); start += r.batchSize {
		end := min(start+r.batchSize, len(productIDs))

		var records []models.Product
		err := r.db.WithContext(ctx).
			Where("id IN ? AND is_active = ?", productIDs[start:end], true).
			Find(&records).
			Error
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			result[record.ID] = toSummary(record)
		}
	}
	return result, nil
}

func toSummary(record models.Product) Summary {
	return Summary{
		ID:              record.ID,
		Title:           record.Title,
		Price:           record.Price,
		OriginalPrice:   record.OriginalPrice,
		ImageURL:        record.ImageURL,
		Rating:          record.Rating,
		ReviewCount:     record.ReviewCount,
		StoreName:       record.StoreName,
		FreeShipping:    record.FreeShipping,
		InstallmentText: record.InstallmentText,
	}
}
