package favorites

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/peakshops/cartsync/internal/engine"
	pkgerrors "github.com/peakshops/cartsync/pkg/errors"
	"github.com/peakshops/cartsync/pkg/logger"
	"github.com/peakshops/cartsync/pkg/metrics"
)

// ServiceParams groups dependencies for the favorites coordinator.
type ServiceParams struct {
	Remote  engine.Remote[Item]
	Logger  *logger.Logger
	Metrics *metrics.SyncMetrics
}

// Service is the single mutation entry point for the favorites instance.
// Unlike the cart, favorites mutations require an authenticated identity and
// short-circuit before touching the mirror or the remote store while guest.
type Service interface {
	Items() []Item
	Count() int
	Loading() bool
	IsFavorite(productID uuid.UUID) bool

	Add(ctx context.Context, input ItemInput) error
	Remove(ctx context.Context, productID uuid.UUID) error
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

// NewService builds the favorites coordinator with its own mirror.
func NewService(params ServiceParams) (Service, error) {
	if params.Remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites remote reconciler is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	eng, err := engine.New("favorites", params.Remote, params.Logger, params.Metrics)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build favorites engine")
	}

	return &service{
		engine:   eng,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Items returns the mirrored favorites in insertion order.
func (s *service) Items() []Item {
	return s.engine.Items()
}

// Count returns the number of distinct saved products.
func (s *service) Count() int {
	return s.engine.Len()
}

// Loading reports whether a remote operation is in flight.
func (s *service) Loading() bool {
	return s.engine.Loading()
}

// IsFavorite is a pure synchronous query against the mirror; it never
// triggers a network call.
func (s *service) IsFavorite(productID uuid.UUID) bool {
	_, ok := s.engine.Get(productID)
	return ok
}

// Add saves the product for the signed-in user. Saving an already saved
// product leaves exactly one entry locally and remotely.
func (s *service) Add(ctx context.Context, input ItemInput) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	if err := s.validateInput(input); err != nil {
		return err
	}
	return s.engine.Upsert(ctx, input.toItem())
}

// Remove drops the favorite locally and fires the remote delete.
func (s *service) Remove(ctx context.Context, productID uuid.UUID) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.engine.Remove(ctx, productID)
}

// Clear empties the favorites locally and remotely.
func (s *service) Clear(ctx context.Context) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	return s.engine.ClearAll(ctx)
}

// Resync replaces the mirror with the authoritative remote state.
func (s *service) Resync(ctx context.Context) error {
	return s.engine.Resync(ctx)
}

// Login migrates any guest state and binds the identity.
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

func (s *service) requireUser() error {
	if _, ok := s.engine.CurrentUser(); !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to manage favorites")
	}
	return nil
}

func (s *service) validateInput(input ItemInput) error {
	if err := s.validate.Struct(input); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid favorite item").WithDetails(err.Error())
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}
