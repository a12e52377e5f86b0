package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"happythoughts/internal/cache"
	"happythoughts/internal/model"
)

const tokenKeyPrefix = "access_token:"

// TokenCacheInterface defines the lookups the auth service makes before
// going to the store.
type TokenCacheInterface interface {
	Get(ctx context.Context, token string) (*model.Identity, error)
	Put(ctx context.Context, identity *model.Identity) error
}

// TokenCache keeps token → identity entries in Redis. Access tokens never
// change or get revoked, so an entry can only be stale by expiring.
type TokenCache struct {
	cache *cache.Client
	ttl   time.Duration
}

// Ensure TokenCache implements TokenCacheInterface
var _ TokenCacheInterface = (*TokenCache)(nil)

// NewTokenCache creates a new token cache.
func NewTokenCache(cache *cache.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{cache: cache, ttl: ttl}
}

type cachedIdentity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Get returns the cached identity for token, or nil on a miss.
func (s *TokenCache) Get(ctx context.Context, token string) (*model.Identity, error) {
	data, err := s.cache.Get(ctx, tokenKey(token))
	if err != nil || data == nil {
		return nil, nil
	}

	var entry cachedIdentity
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal token data: %w", err)
	}

	return &model.Identity{
		UserID:      entry.UserID,
		Username:    entry.Username,
		AccessToken: token,
	}, nil
}

// Put caches identity under its access token.
func (s *TokenCache) Put(ctx context.Context, identity *model.Identity) error {
	payload, err := json.Marshal(cachedIdentity{
		UserID:   identity.UserID,
		Username: identity.Username,
	})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Set(ctx, tokenKey(identity.AccessToken), payload, s.ttl)
}

// tokenKey hashes the token so raw bearer credentials never appear in the
// Redis key space.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}
