package identity

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/peakshops/cartsync/pkg/errors"
	"github.com/peakshops/cartsync/pkg/logger"
	"github.com/stretchr/testify/require"
)

type recordingSyncer struct {
	logins   []uuid.UUID
	attaches []uuid.UUID
	logouts  int

	loginErr error
}

func (r *recordingSyncer) Login(ctx context.Context, userID uuid.UUID) error {
	r.logins = append(r.logins, userID)
	return r.loginErr
}

func (r *recordingSyncer) Attach(ctx context.Context, userID uuid.UUID) error {
	r.attaches = append(r.attaches, userID)
	return nil
}

func (r *recordingSyncer) Logout() {
	r.logouts++
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "gate-test", Output: io.Discard})
}

func TestNewGateValidatesDependencies(t *testing.T) {
	_, err := NewGate(nil, testLogger(), &recordingSyncer{})
	require.Error(t, err)

	_, err = NewGate(NewStatic(nil), nil, &recordingSyncer{})
	require.Error(t, err)

	_, err = NewGate(NewStatic(nil), testLogger())
	require.Error(t, err)
}

func TestStartAsGuest(t *testing.T) {
	syncer := &recordingSyncer{}
	gate, err := NewGate(NewStatic(nil), testLogger(), syncer)
	require.NoError(t, err)

	require.NoError(t, gate.Start(context.Background()))
	require.Equal(t, ModeGuest, gate.Mode())
	require.Empty(t, syncer.attaches)
	require.Empty(t, syncer.logins)
}

func TestStartWithSignedInIdentityAttachesWithoutMigration(t *testing.T) {
	userID := uuid.New()
	cart := &recordingSyncer{}
	favorites := &recordingSyncer{}
	gate, err := NewGate(NewStatic(&Identity{UserID: userID}), testLogger(), cart, favorites)
	require.NoError(t, err)

	require.NoError(t, gate.Start(context.Background()))

	require.Equal(t, ModeAuthenticated, gate.Mode())
	current, ok := gate.CurrentUser()
	require.True(t, ok)
	require.Equal(t, userID, current)

	require.Equal(t, []uuid.UUID{userID}, cart.attaches)
	require.Equal(t, []uuid.UUID{userID}, favorites.attaches)
	require.Empty(t, cart.logins)
	require.Empty(t, favorites.logins)
}

func TestOnLoginMigratesOncePerTransition(t *testing.T) {
	userID := uuid.New()
	cart := &recordingSyncer{}
	favorites := &recordingSyncer{}
	gate, err := NewGate(NewStatic(nil), testLogger(), cart, favorites)
	require.NoError(t, err)
	require.NoError(t, gate.Start(context.Background()))

	require.NoError(t, gate.OnLogin(context.Background(), userID))
	require.Equal(t, []uuid.UUID{userID}, cart.logins)
	require.Equal(t, []uuid.UUID{userID}, favorites.logins)

	// same user again is a no-op, no second migration
	require.NoError(t, gate.OnLogin(context.Background(), userID))
	require.Len(t, cart.logins, 1)
	require.Len(t, favorites.logins, 1)
}

func TestOnLoginRejectsNilUser(t *testing.T) {
	gate, err := NewGate(NewStatic(nil), testLogger(), &recordingSyncer{})
	require.NoError(t, err)

	err = gate.OnLogin(context.Background(), uuid.Nil)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestOnLoginAggregatesSyncerFailures(t *testing.T) {
	cart := &recordingSyncer{loginErr: errors.New("cart migration failed")}
	favorites := &recordingSyncer{}
	gate, err := NewGate(NewStatic(nil), testLogger(), cart, favorites)
	require.NoError(t, err)

	err = gate.OnLogin(context.Background(), uuid.New())
	require.Error(t, err)

	// a failing syncer does not stop the others
	require.Len(t, favorites.logins, 1)
}

func TestAccountSwitchResetsWithoutMigration(t *testing.T) {
	firstUser := uuid.New()
	secondUser := uuid.New()
	syncer := &recordingSyncer{}
	gate, err := NewGate(NewStatic(&Identity{UserID: firstUser}), testLogger(), syncer)
	require.NoError(t, err)
	require.NoError(t, gate.Start(context.Background()))

	require.NoError(t, gate.OnLogin(context.Background(), secondUser))

	// the first user's local state is never migrated into the second account
	require.Equal(t, 1, syncer.logouts)
	require.Equal(t, []uuid.UUID{firstUser, secondUser}, syncer.attaches)
	require.Empty(t, syncer.logins)

	current, ok := gate.CurrentUser()
	require.True(t, ok)
	require.Equal(t, secondUser, current)
}

func TestOnLogout(t *testing.T) {
	userID := uuid.New()
	syncer := &recordingSyncer{}
	gate, err := NewGate(NewStatic(&Identity{UserID: userID}), testLogger(), syncer)
	require.NoError(t, err)
	require.NoError(t, gate.Start(context.Background()))

	gate.OnLogout(context.Background())
	require.Equal(t, ModeGuest, gate.Mode())
	require.Equal(t, 1, syncer.logouts)

	// logging out while guest is a no-op
	gate.OnLogout(context.Background())
	require.Equal(t, 1, syncer.logouts)

	_, ok := gate.CurrentUser()
	require.False(t, ok)
}

func TestModeString(t *testing.T) {
	require.Equal(t, "guest", ModeGuest.String())
	require.Equal(t, "authenticated", ModeAuthenticated.String())
}
