package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated principal, if any.
type Identity struct {
	UserID uuid.UUID
}

// Provider exposes the current identity, or none. How the identity is
// obtained (session store, embedding host, test fixture) is not the
// engine's concern.
type Provider interface {
	Current(ctx context.Context) (*Identity, error)
}

// Static is a fixed provider for hosts that manage identity themselves and
// for tests.
type Static struct {
	identity *Identity
}

// NewStatic builds a provider that always reports the given identity. Pass
// nil for a guest provider.
func NewStatic(identity *Identity) *Static {
	return &Static{identity: identity}
}

// Current returns the configured identity.
func (s *Static) Current(ctx context.Context) (*Identity, error) {
	return s.identity, nil
}
