package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/peakshops/cartsync/pkg/config"
	pkgerrors "github.com/peakshops/cartsync/pkg/errors"
	redislib "github.com/redis/go-redis/v9"
)

type tokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	SessionKey(deviceID string) string
}

// SessionProvider resolves the current identity from the device's stored
// access token. A missing token means guest, not an error.
type SessionProvider struct {
	store    tokenStore
	deviceID string
	secret   []byte
	issuer   string
}

// accessTokenClaims is the subset of the auth service's JWT we care about.
type accessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// NewSessionProvider builds a provider bound to one device's session key.
func NewSessionProvider(store tokenStore, deviceID string, cfg config.JWTConfig) (*SessionProvider, error) {
	if store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("device id is required")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &SessionProvider{
		store:    store,
		deviceID: deviceID,
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
	}, nil
}

// Current reads the stored access token and extracts the user id from its
// claims. Expired or malformed tokens degrade to guest rather than error:
// the engine treats "no valid identity" and "no identity" the same way.
func (p *SessionProvider) Current(ctx context.Context) (*Identity, error) {
	token, err := p.store.Get(ctx, p.store.SessionKey(p.deviceID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session token")
	}

	claims := &accessTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(p.issuer))
	if err != nil || !parsed.Valid {
		return nil, nil
	}
	if claims.UserID == uuid.Nil {
		return nil, nil
	}

	return &Identity{UserID: claims.UserID}, nil
}
