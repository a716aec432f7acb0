package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtside/courtside/internal/model"
)

const (
	// sessionCachePrefix is the Redis key prefix for session context cache.
	sessionCachePrefix = "session:ctx:"
	// sessionCacheTTL is the time-to-live for cached session contexts.
	// Short on purpose: a role change becomes visible within this window.
	sessionCacheTTL = 5 * time.Minute
)

// cachedSessionContext represents a session context stored in Redis.
type cachedSessionContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// GetSessionContext retrieves a cached session context by token digest.
// Returns nil on a cache miss; a miss is never an error.
func (c *Cache) GetSessionContext(ctx context.Context, tokenDigest string) (*model.SessionContext, error) {
	key := sessionCachePrefix + tokenDigest

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedSessionContext
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.SessionContext{
		UserID: cached.UserID,
		Email:  cached.Email,
		Name:   cached.Name,
		Role:   cached.Role,
	}, nil
}

// SetSessionContext caches a session context under a token digest.
func (c *Cache) SetSessionContext(ctx context.Context, tokenDigest string, sess *model.SessionContext) error {
	key := sessionCachePrefix + tokenDigest

	cached := cachedSessionContext{
		UserID: sess.UserID,
		Email:  sess.Email,
		Name:   sess.Name,
		Role:   sess.Role,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal session context: %w", err)
	}

	return c.client.Set(ctx, key, data, sessionCacheTTL).Err()
}

// DeleteSessionContext removes a cached session context. Logout calls this
// so the dropped identity stops resolving immediately instead of after the
// cache TTL.
func (c *Cache) DeleteSessionContext(ctx context.Context, tokenDigest string) error {
	key := sessionCachePrefix + tokenDigest
	return c.client.Del(ctx, key).Err()
}
