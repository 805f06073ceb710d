package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/peakshops/cartsync/pkg/errors"
	"github.com/peakshops/cartsync/pkg/logger"
	"go.uber.org/multierr"
)

// Mode is the engine's storage mode, derived from identity presence.
type Mode int

const (
	ModeGuest Mode = iota
	ModeAuthenticated
)

func (m Mode) String() string {
	if m == ModeAuthenticated {
		return "authenticated"
	}
	return "guest"
}

// Syncer is one engine instance the gate drives across identity transitions.
type Syncer interface {
	// Login binds the identity and migrates guest-accumulated local state.
	Login(ctx context.Context, userID uuid.UUID) error
	// Attach binds an identity already present at startup; plain load, no
	// migration.
	Attach(ctx context.Context, userID uuid.UUID) error
	// Logout clears local state, leaving remote rows untouched.
	Logout()
}

// Gate observes identity transitions and owns the one-time migration pass.
// One gate drives both the cart and the favorites instances.
type Gate struct {
	provider Provider
	syncers  []Syncer
	logg     *logger.Logger

	mu   sync.Mutex
	mode Mode
	user uuid.UUID
}

// NewGate builds a gate over the given provider and engine instances.
func NewGate(provider Provider, logg *logger.Logger, syncers ...Syncer) (*Gate, error) {
	if provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity provider is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if len(syncers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one syncer is required")
	}
	return &Gate{provider: provider, syncers: syncers, logg: logg}, nil
}

// Mode returns the current storage mode.
func (g *Gate) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// CurrentUser returns the bound identity, if any.
func (g *Gate) CurrentUser() (uuid.UUID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode != ModeAuthenticated {
		return uuid.Nil, false
	}
	return g.user, true
}

// Start resolves the identity present at mount time. A signed-in identity
// gets a plain load on every syncer; no migration runs because no transition
// was observed.
func (g *Gate) Start(ctx context.Context) error {
	identity, err := g.provider.Current(ctx)
	if err != nil {
		return err
	}
	if identity == nil {
		g.setMode(ModeGuest, uuid.Nil)
		return nil
	}

	g.setMode(ModeAuthenticated, identity.UserID)
	ctx = g.logg.WithUserID(ctx, identity.UserID.String())
	g.logg.Info(ctx, "identity present at mount, loading remote state")

	var errs error
	for _, syncer := range g.syncers {
		errs = multierr.Append(errs, syncer.Attach(ctx, identity.UserID))
	}
	return errs
}

// OnLogin handles the Guest -> Authenticated transition: each syncer
// migrates its guest-accumulated state exactly once per login event.
// Repeating the call for the same signed-in user is a no-op; a different
// user replaces the session (logout semantics, then a plain load — the
// previous user's local state is never migrated into the new account).
func (g *Gate) OnLogin(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	g.mu.Lock()
	previousMode := g.mode
	previousUser := g.user
	g.mu.Unlock()

	if previousMode == ModeAuthenticated && previousUser == userID {
		return nil
	}

	ctx = g.logg.WithUserID(ctx, userID.String())

	if previousMode == ModeAuthenticated {
		g.logg.Info(ctx, "switching accounts, resetting local state")
		for _, syncer := range g.syncers {
			syncer.Logout()
		}
		g.setMode(ModeAuthenticated, userID)
		var errs error
		for _, syncer := range g.syncers {
			errs = multierr.Append(errs, syncer.Attach(ctx, userID))
		}
		return errs
	}

	g.setMode(ModeAuthenticated, userID)
	g.logg.Info(ctx, "login observed, migrating guest state")

	var errs error
	for _, syncer := range g.syncers {
		errs = multierr.Append(errs, syncer.Login(ctx, userID))
	}
	if errs != nil {
		g.logg.Error(ctx, "migration reported failures", errs)
	}
	return errs
}

// OnLogout handles Authenticated -> Guest: local mirrors are cleared, remote
// rows persist for the next login.
func (g *Gate) OnLogout(ctx context.Context) {
	g.mu.Lock()
	wasAuthenticated := g.mode == ModeAuthenticated
	user := g.user
	g.mu.Unlock()

	if !wasAuthenticated {
		return
	}

	g.setMode(ModeGuest, uuid.Nil)
	for _, syncer := range g.syncers {
		syncer.Logout()
	}
	g.logg.Info(g.logg.WithUserID(ctx, user.String()), fmt.Sprintf("logout observed, cleared %d local mirrors", len(g.syncers)))
}

func (g *Gate) setMode(mode Mode, user uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = mode
	g.user = user
}
