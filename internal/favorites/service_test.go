package favorites

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/peakshops/cartsync/pkg/errors"
	"github.com/peakshops/cartsync/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryRemote struct {
	mu    sync.Mutex
	items map[uuid.UUID][]Item

	pushes int
	loads  int
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{items: map[uuid.UUID][]Item{}}
}

func (m *memoryRemote) Load(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	out := make([]Item, len(m.items[userID]))
	copy(out, m.items[userID])
	return out, nil
}

func (m *memoryRemote) Push(ctx context.Context, userID uuid.UUID, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushes++
	for _, existing := range m.items[userID] {
		if existing.ProductID == item.ProductID {
			return nil
		}
	}
	m.items[userID] = append(m.items[userID], item)
	return nil
}

func (m *memoryRemote) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.items[userID]
	for i, existing := range rows {
		if existing.ProductID == productID {
			m.items[userID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memoryRemote) Clear(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

func (m *memoryRemote) rowsFor(userID uuid.UUID) []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items[userID]))
	copy(out, m.items[userID])
	return out
}

func newTestService(t *testing.T) (Service, *memoryRemote) {
	t.Helper()
	remote := newMemoryRemote()
	svc, err := NewService(ServiceParams{
		Remote: remote,
		Logger: logger.New(logger.Options{ServiceName: "favorites-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, remote
}

func testInput() ItemInput {
	return ItemInput{
		ProductID: uuid.New(),
		Title:     "Bluetooth Speaker",
		Price:     decimal.RequireFromString("49.90"),
		StoreName: "Peak Audio",
	}
}

func TestGuestMutationsAreUnauthorized(t *testing.T) {
	svc, remote := newTestService(t)
	ctx := context.Background()

	err := svc.Add(ctx, testInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	err = svc.Remove(ctx, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	err = svc.Clear(ctx)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	require.Empty(t, svc.Items())
	require.Equal(t, 0, remote.pushes)
}

func TestAddIsIdempotentPerProduct(t *testing.T) {
	svc, remote := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.Attach(ctx, userID))

	input := testInput()
	require.NoError(t, svc.Add(ctx, input))
	require.NoError(t, svc.Add(ctx, input))

	require.Equal(t, 1, svc.Count())
	require.Len(t, remote.rowsFor(userID), 1)
}

func TestAddValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Attach(ctx, uuid.New()))

	missingTitle := testInput()
	missingTitle.Title = ""
	err := svc.Add(ctx, missingTitle)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestIsFavoriteIsAPureMirrorQuery(t *testing.T) {
	svc, remote := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Attach(ctx, uuid.New()))

	input := testInput()
	require.NoError(t, svc.Add(ctx, input))

	loadsBefore := remote.loads
	require.True(t, svc.IsFavorite(input.ProductID))
	require.False(t, svc.IsFavorite(uuid.New()))
	require.Equal(t, loadsBefore, remote.loads)
}

func TestRemoveAndClear(t *testing.T) {
	svc, remote := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.Attach(ctx, userID))

	first := testInput()
	second := testInput()
	require.NoError(t, svc.Add(ctx, first))
	require.NoError(t, svc.Add(ctx, second))

	require.NoError(t, svc.Remove(ctx, first.ProductID))
	require.False(t, svc.IsFavorite(first.ProductID))
	require.Len(t, remote.rowsFor(userID), 1)

	require.NoError(t, svc.Clear(ctx))
	require.Equal(t, 0, svc.Count())
	require.Empty(t, remote.rowsFor(userID))
}

func TestLogoutClearsMirrorLeavesRemote(t *testing.T) {
	svc, remote := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.Attach(ctx, userID))

	require.NoError(t, svc.Add(ctx, testInput()))
	svc.Logout()

	require.Equal(t, 0, svc.Count())
	require.Len(t, remote.rowsFor(userID), 1)

	require.NoError(t, svc.Attach(ctx, userID))
	require.Equal(t, 1, svc.Count())
}

func TestInputDerivesDiscount(t *testing.T) {
	original := decimal.RequireFromString("100.00")
	input := testInput()
	input.Price = decimal.RequireFromString("80.00")
	input.OriginalPrice = &original

	item := input.toItem()
	require.NotNil(t, item.DiscountPercent)
	require.Equal(t, 20, *item.DiscountPercent)

	input.OriginalPrice = nil
	item = input.toItem()
	require.Nil(t, item.DiscountPercent)
}
