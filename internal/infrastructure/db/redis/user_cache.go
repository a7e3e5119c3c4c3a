package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/croco-platform/user-service/internal/core/domain"
)

const defaultUserTTL = 30 * time.Minute

// UserCache stores JSON-encoded UserDetails under users:<id> with a fixed
// TTL. Entries are never updated in place; writers evict and let the next
// read repopulate.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache wraps the given Redis client. A non-positive ttl falls back
// to 30 minutes.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) Get(ctx context.Context, id int64) (*domain.UserDetails, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var details domain.UserDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		// A corrupt entry behaves like a miss; the next Put overwrites it.
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &details, true, nil
}

func (c *UserCache) Put(ctx context.Context, id int64, details domain.UserDetails) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *UserCache) Evict(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

func (c *UserCache) key(id int64) string {
	return fmt.Sprintf("users:%d", id)
}
