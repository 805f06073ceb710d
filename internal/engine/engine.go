// Package engine implements the generic cart/favorites synchronization core:
// an in-memory mirror the UI renders, and the optimistic local-then-remote
// mutation flow shared by both instances.
//
// Mutations update the mirror synchronously and then, when an identity is
// attached, perform the matching remote operation. A failed remote operation
// leaves the mirror as mutated and is surfaced to the caller as a
// REMOTE_ERROR; Resync is the recovery path. Callers are expected to invoke
// mutations sequentially, the way a UI event loop does. Remote confirmations
// are not resequenced: a slow remote write can land after a later one, so
// the remote store may diverge from the mirror until the next successful
// mutation or load.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/peakshops/cartsync/pkg/errors"
	"github.com/peakshops/cartsync/pkg/logger"
	"github.com/peakshops/cartsync/pkg/metrics"
	"go.uber.org/multierr"
)

// Remote is the persistence-facing surface of one engine instance. Push
// writes the item's absolute state (last write wins), Delete and Clear are
// idempotent, and Load returns fully joined items for the identity.
type Remote[T Item] interface {
	Load(ctx context.Context, userID uuid.UUID) ([]T, error)
	Push(ctx context.Context, userID uuid.UUID, item T) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Engine owns one mirror and coordinates it against a remote row store.
type Engine[T Item] struct {
	name    string
	mirror  *Mirror[T]
	remote  Remote[T]
	logg    *logger.Logger
	metrics *metrics.SyncMetrics

	mu   sync.Mutex
	user *uuid.UUID

	inflight atomic.Int64
}

// New builds an engine instance. The name tags log entries and metrics.
func New[T Item](name string, remote Remote[T], logg *logger.Logger, m *metrics.SyncMetrics) (*Engine[T], error) {
	if name == "" {
		return nil, fmt.Errorf("engine name required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote reconciler required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Engine[T]{
		name:    name,
		mirror:  NewMirror[T](),
		remote:  remote,
		logg:    logg,
		metrics: m,
	}, nil
}

// Items returns the mirror contents in insertion order.
func (e *Engine[T]) Items() []T {
	return e.mirror.Items()
}

// Get returns the mirrored item for the given product, if present.
func (e *Engine[T]) Get(productID uuid.UUID) (T, bool) {
	return e.mirror.Get(productID)
}

// Len returns the number of distinct mirrored items.
func (e *Engine[T]) Len() int {
	return e.mirror.Len()
}

// Loading reports whether any remote operation is in flight.
func (e *Engine[T]) Loading() bool {
	return e.inflight.Load() > 0
}

// CurrentUser returns the attached identity, if any.
func (e *Engine[T]) CurrentUser() (uuid.UUID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.user == nil {
		return uuid.Nil, false
	}
	return *e.user, true
}

// Upsert applies the item to the mirror immediately and pushes its absolute
// state remotely when authenticated. The mirror is not rolled back if the
// push fails.
func (e *Engine[T]) Upsert(ctx context.Context, item T) error {
	e.mirror.Upsert(item)

	user, ok := e.CurrentUser()
	if !ok {
		return nil
	}
	return e.remoteOp(ctx, "upsert", func(ctx context.Context) error {
		return e.remote.Push(ctx, user, item)
	})
}

// Remove drops the item locally and issues the remote delete when
// authenticated. Removing a product absent from the mirror is a no-op and
// skips the remote call.
func (e *Engine[T]) Remove(ctx context.Context, productID uuid.UUID) error {
	if !e.mirror.Contains(productID) {
		return nil
	}
	e.mirror.Remove(productID)

	user, ok := e.CurrentUser()
	if !ok {
		return nil
	}
	return e.remoteOp(ctx, "delete", func(ctx context.Context) error {
		return e.remote.Delete(ctx, user, productID)
	})
}

// ClearAll empties the mirror immediately and clears the remote rows when
// authenticated. The mirror stays cleared even if the remote clear fails.
func (e *Engine[T]) ClearAll(ctx context.Context) error {
	e.mirror.Clear()

	user, ok := e.CurrentUser()
	if !ok {
		return nil
	}
	return e.remoteOp(ctx, "clear", func(ctx context.Context) error {
		return e.remote.Clear(ctx, user)
	})
}

// Login attaches the identity and migrates guest-accumulated mirror state
// into the remote store. Every item is pushed (at-least-once; pushes are
// idempotent per identifier) and failures are aggregated. The refresh load
// runs only after a fully successful push pass so a retried migration can
// pick up the stragglers.
func (e *Engine[T]) Login(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	e.setUser(&userID)

	ctx = e.logg.WithEngine(e.logg.WithUserID(ctx, userID.String()), e.name)

	var pushErr error
	snapshot := e.mirror.Items()
	for _, item := range snapshot {
		err := e.remoteOp(ctx, "migrate", func(ctx context.Context) error {
			return e.remote.Push(ctx, userID, item)
		})
		pushErr = multierr.Append(pushErr, err)
	}
	if pushErr != nil {
		e.logg.Warn(ctx, "migration incomplete, keeping local state for retry")
		return pushErr
	}

	if len(snapshot) > 0 {
		e.logg.Info(ctx, fmt.Sprintf("migrated %d guest items", len(snapshot)))
	}
	return e.load(ctx, userID)
}

// Attach binds an identity that was already signed in at startup and loads
// the remote state. No migration runs.
func (e *Engine[T]) Attach(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	e.setUser(&userID)

	ctx = e.logg.WithEngine(e.logg.WithUserID(ctx, userID.String()), e.name)
	return e.load(ctx, userID)
}

// Logout detaches the identity and clears the mirror. Remote rows are left
// untouched for the next login.
func (e *Engine[T]) Logout() {
	e.setUser(nil)
	e.mirror.Clear()
}

// Resync re-runs the remote load, replacing the mirror with the
// authoritative remote state. It is the documented recovery path after a
// reported remote failure. No-op while guest.
func (e *Engine[T]) Resync(ctx context.Context) error {
	user, ok := e.CurrentUser()
	if !ok {
		return nil
	}
	ctx = e.logg.WithEngine(e.logg.WithUserID(ctx, user.String()), e.name)
	return e.load(ctx, user)
}

func (e *Engine[T]) load(ctx context.Context, userID uuid.UUID) error {
	var items []T
	err := e.remoteOp(ctx, "load", func(ctx context.Context) error {
		loaded, err := e.remote.Load(ctx, userID)
		if err != nil {
			return err
		}
		items = loaded
		return nil
	})
	if err != nil {
		return err
	}
	e.mirror.ReplaceAll(items)
	return nil
}

func (e *Engine[T]) setUser(userID *uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.user = userID
}

func (e *Engine[T]) remoteOp(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	e.inflight.Add(1)
	defer e.inflight.Add(-1)

	start := time.Now()
	err := fn(ctx)
	e.metrics.ObserveDuration(e.name, op, time.Since(start))

	if err != nil {
		e.metrics.IncFailure(e.name, op)
		e.logg.Error(e.logg.WithEngine(ctx, e.name), fmt.Sprintf("remote %s failed", op), err)
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("%s %s", e.name, op))
	}
	e.metrics.IncSuccess(e.name, op)
	return nil
}
