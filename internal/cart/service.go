package cart

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/peakshops/cartsync/internal/engine"
	pkgerrors "github.com/peakshops/cartsync/pkg/errors"
	"github.com/peakshops/cartsync/pkg/logger"
	"github.com/peakshops/cartsync/pkg/metrics"
	"github.com/shopspring/decimal"
)

// ServiceParams groups dependencies for the cart coordinator.
type ServiceParams struct {
	Remote  engine.Remote[Item]
	Logger  *logger.Logger
	Metrics *metrics.SyncMetrics
}

// Service is the single mutation entry point for the cart instance. Reads
// are served from the local mirror; mutations apply optimistically and, when
// authenticated, confirm against the remote store without rolling back on
// failure.
type Service interface {
	Items() []Item
	Count() int
	Total() decimal.Decimal
	Loading() bool

	Add(ctx context.Context, input ItemInput, qtyDelta int) error
	Remove(ctx context.Context, productID uuid.UUID) error
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error
	Clear(ctx context.Context) error
	Resync(ctx context.Context) error

	Login(ctx context.Context, userID uuid.UUID) error
	Attach(ctx context.Context, userID uuid.UUID) error
	Logout()
}

type service struct {
	engine   *engine.Engine[Item]
	validate *validator.Validate
}

// NewService builds the cart coordinator with its own mirror.
func NewService(params ServiceParams) (Service, error) {
	if params.Remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart remote reconciler is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	eng, err := engine.New("cart", params.Remote, params.Logger, params.Metrics)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build cart engine")
	}

	return &service{
		engine:   eng,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Items returns the mirrored cart lines in insertion order.
func (s *service) Items() []Item {
	return s.engine.Items()
}

// Count returns the sum of quantities, not the distinct line count.
func (s *service) Count() int {
	total := 0
	for _, item := range s.engine.Items() {
		total += item.Quantity
	}
	return total
}

// Total sums price times quantity exactly; rounding is left to presentation.
func (s *service) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.engine.Items() {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Loading reports whether a remote operation is in flight.
func (s *service) Loading() bool {
	return s.engine.Loading()
}

// Add folds qtyDelta into the existing mirrored quantity and writes the
// resulting absolute quantity. A delta that lands at or below zero becomes a
// removal.
func (s *service) Add(ctx context.Context, input ItemInput, qtyDelta int) error {
	if err := s.validateInput(input); err != nil {
		return err
	}

	existing := 0
	if current, ok := s.engine.Get(input.ProductID); ok {
		existing = current.Quantity
	}
	newQty := existing + qtyDelta
	if newQty <= 0 {
		return s.Remove(ctx, input.ProductID)
	}

	return s.engine.Upsert(ctx, input.toItem(newQty))
}

// Remove drops the line locally and fires the remote delete. Removing a
// product that is not in the mirror is a no-op.
func (s *service) Remove(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.engine.Remove(ctx, productID)
}

// SetQuantity writes an absolute quantity for a line already in the cart.
// Quantities at or below zero delegate to Remove.
func (s *service) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}

	current, ok := s.engine.Get(productID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	current.Quantity = quantity
	return s.engine.Upsert(ctx, current)
}

// Clear empties the cart locally and remotely.
func (s *service) Clear(ctx context.Context) error {
	return s.engine.ClearAll(ctx)
}

// Resync replaces the mirror with the authoritative remote state.
func (s *service) Resync(ctx context.Context) error {
	return s.engine.Resync(ctx)
}

// Login migrates guest state and binds the identity.
func (s *service) Login(ctx context.Context, userID uuid.UUID) error {
	return s.engine.Login(ctx, userID)
}

// Attach binds an identity already signed in at startup and loads its rows.
func (s *service) Attach(ctx context.Context, userID uuid.UUID) error {
	return s.engine.Attach(ctx, userID)
}

// Logout clears the mirror and detaches the identity.
func (s *service) Logout() {
	s.engine.Logout()
}

func (s *service) validateInput(input ItemInput) error {
	if err := s.validate.Struct(input); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item").WithDetails(err.Error())
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}
