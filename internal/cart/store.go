package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/gelvpress/gelv-backend/pkg/redis"
)

// Abandoned carts linger this long before Redis expires them.
const sessionTTL = 30 * 24 * time.Hour

type sessionKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartSessionKey(sessionID string) string
}

// SessionStore persists carts in Redis keyed by session id.
type SessionStore struct {
	kv     sessionKV
	source ProductSource
	ttl    time.Duration
}

// NewSessionStore builds the Redis-backed cart store.
func NewSessionStore(kv sessionKV, source ProductSource) (*SessionStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if source == nil {
		return nil, fmt.Errorf("product source required")
	}
	return &SessionStore{kv: kv, source: source, ttl: sessionTTL}, nil
}

// Load rebuilds the session's cart. An absent key yields an empty cart; a
// stored payload that fails strict validation fails the load.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	payload, err := s.kv.Get(ctx, s.kv.CartSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart session")
	}

	var records []RawItem
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "corrupt cart session")
	}
	return FromRaw(ctx, s.source, records)
}

// Save serializes the cart under the session key, refreshing the TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}

	payload, err := json.Marshal(c.Raw())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.kv.CartSessionKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart session")
	}
	return nil
}

// Clear drops the session's cart.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if err := s.kv.Del(ctx, s.kv.CartSessionKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart session")
	}
	return nil
}
