package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/peakshops/cartsync/internal/catalog"
	"github.com/peakshops/cartsync/pkg/db/models"
	"github.com/peakshops/cartsync/pkg/logger"
)

type rowStore interface {
	ListRows(ctx context.Context, userID uuid.UUID) ([]models.CartRow, error)
	UpsertRow(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	DeleteRow(ctx context.Context, userID, productID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

type catalogResolver interface {
	ResolveMany(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]catalog.Summary, error)
}

// Reconciler translates cart mutations into row-store operations and joins
// rows against the live catalog on load. Implements engine.Remote[Item].
type Reconciler struct {
	rows    rowStore
	catalog catalogResolver
	logg    *logger.Logger
}

// NewReconciler builds a cart reconciler.
func NewReconciler(rows rowStore, resolver catalogResolver, logg *logger.Logger) (*Reconciler, error) {
	if rows == nil {
		return nil, fmt.Errorf("row store required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Reconciler{rows: rows, catalog: resolver, logg: logg}, nil
}

// Load fetches all rows for the identity and joins catalog metadata at read
// time. Rows whose product no longer resolves are dropped, not surfaced as
// broken entries.
func (r *Reconciler) Load(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	rows, err := r.rows.ListRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Item{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}

	summaries, err := r.catalog.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		summary, ok := summaries[row.ProductID]
		if !ok {
			r.logg.Debug(r.logg.WithField(ctx, "product_id", row.ProductID.String()), "dropping cart row for unresolvable product")
			continue
		}
		items = append(items, Item{
			ProductID: summary.ID,
			Title:     summary.Title,
			Price:     summary.Price,
			ImageURL:  summary.ImageURL,
			Quantity:  row.Quantity,
			StoreName: summary.StoreName,
		})
	}
	return items, nil
}

// Push writes the item's absolute quantity for the identity.
func (r *Reconciler) Push(ctx context.Context, userID uuid.UUID, item Item) error {
	return r.rows.UpsertRow(ctx, userID, item.ProductID, item.Quantity)
}

// Delete removes the (identity, product) row. Absent rows are not an error.
func (r *Reconciler) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	return r.rows.DeleteRow(ctx, userID, productID)
}

// Clear removes every row for the identity.
func (r *Reconciler) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.rows.DeleteAll(ctx, userID)
}
