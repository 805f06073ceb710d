package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/peakshops/cartsync/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		price NUMERIC NOT NULL,
		original_price NUMERIC,
		image_url TEXT,
		rating REAL NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		store_name TEXT NOT NULL,
		free_shipping INTEGER NOT NULL DEFAULT 0,
		installment_text TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, active bool) models.Product {
	t.Helper()

	record := models.Product{
		ID:        uuid.New(),
		Title:     "Mechanical Keyboard",
		Price:     decimal.RequireFromString("89.90"),
		StoreName: "Peak Electronics",
		Rating:    4.5,
		IsActive:  active,
	}
	require.NoError(t, db.Create(&record).Error)
	return record
}

func TestResolveActiveProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db, 0)
	ctx := context.Background()

	record := seedProduct(t, db, true)

	summary, err := repo.Resolve(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, summary.ID)
	require.Equal(t, record.Title, summary.Title)
	require.True(t, summary.Price.Equal(record.Price))
	require.Equal(t, record.StoreName, summary.StoreName)
}

func TestResolveMissingOrInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db, 0)
	ctx := context.Background()

	_, err := repo.Resolve(ctx, uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	inactive := seedProduct(t, db, false)
	_, err = repo.Resolve(ctx, inactive.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.Resolve(ctx, uuid.Nil)
	require.Error(t, err)
}

func TestResolveManyOmitsUnresolvable(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db, 0)
	ctx := context.Background()

	active := seedProduct(t, db, true)
	inactive := seedProduct(t, db, false)
	missing := uuid.New()

	summaries, err := repo.ResolveMany(ctx, []uuid.UUID{active.ID, inactive.ID, missing})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	_, ok := summaries[active.ID]
	require.True(t, ok)

	empty, err := repo.ResolveMany(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestResolveManyBatchesLookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db, 2)
	ctx := context.Background()

	ids := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, seedProduct(t, db, true).ID)
	}

	summaries, err := repo.ResolveMany(ctx, ids)
	require.NoError(t, err)
	require.Len(t, summaries, 5)
}

func TestDiscountPercent(t *testing.T) {
	price := decimal.RequireFromString("80.00")
	original := decimal.RequireFromString("100.00")

	summary := Summary{Price: price, OriginalPrice: &original}
	require.NotNil(t, summary.DiscountPercent())
	require.Equal(t, 20, *summary.DiscountPercent())

	// no original price means no discount
	summary = Summary{Price: price}
	require.Nil(t, summary.DiscountPercent())

	// original at or below the price is not a discount
	same := decimal.RequireFromString("80.00")
	summary = Summary{Price: price, OriginalPrice: &same}
	require.Nil(t, summary.DiscountPercent())
}
