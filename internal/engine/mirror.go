package engine

import (
	"sync"

	"github.com/google/uuid"
)

// Item is an entry a mirror can hold, keyed by its catalog product id.
type Item interface {
	Key() uuid.UUID
}

// Mirror is the in-memory, UI-facing copy of one engine's state. Reads are
// synchronous and side-effect-free; all writes go through the owning engine.
// Insertion order is preserved; upserting an existing key replaces it in
// place.
type Mirror[T Item] struct {
	mu    sync.RWMutex
	order []uuid.UUID
	items map[uuid.UUID]T
}

// NewMirror builds an empty mirror.
func NewMirror[T Item]() *Mirror[T] {
	return &Mirror[T]{items: make(map[uuid.UUID]T)}
}

// Upsert replaces the item with the same key or appends a new one.
func (m *Mirror[T]) Upsert(item T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := item.Key()
	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = item
}

// Remove drops the item with the given key. Removing an absent key is a
// no-op, not an error.
func (m *Mirror[T]) Remove(key uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok {
		return
	}
	delete(m.items, key)
	for i, existing := range m.order {
		if existing == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Clear empties the collection.
func (m *Mirror[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = nil
	m.items = make(map[uuid.UUID]T)
}

// ReplaceAll swaps the whole collection for the given items, keeping their
// order. Later duplicates overwrite earlier ones.
func (m *Mirror[T]) ReplaceAll(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = make([]uuid.UUID, 0, len(items))
	m.items = make(map[uuid.UUID]T, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := m.items[key]; !ok {
			m.order = append(m.order, key)
		}
		m.items[key] = item
	}
}

// Get returns the item with the given key, if present.
func (m *Mirror[T]) Get(key uuid.UUID) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	return item, ok
}

// Contains reports whether the key is present.
func (m *Mirror[T]) Contains(key uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.items[key]
	return ok
}

// Items returns a copy of the collection in insertion order.
func (m *Mirror[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.items[key])
	}
	return out
}

// Len returns the number of distinct items.
func (m *Mirror[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}
