// Package cache holds the Redis-backed cache for the public event
// discovery listing. Entries are invalidated by bus notifications rather
// than by per-mutation refetching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventease/internal/notify"

	"github.com/redis/go-redis/v9"
)

const (
	discoveryPrefix = "discovery:"
	discoveryTTL    = 60 * time.Second
)

// DiscoveryCache caches serialized discovery pages keyed by query shape.
type DiscoveryCache struct {
	rdb *redis.Client
}

// NewDiscoveryCache creates a cache over the given Redis client.
func NewDiscoveryCache(rdb *redis.Client) *DiscoveryCache {
	return &DiscoveryCache{rdb: rdb}
}

// Key builds the cache key for a discovery query. Every parameter that
// changes the result set must appear here, or variants would overwrite
// each other.
func Key(query, category string, includePast bool, limit, offset int) string {
	return fmt.Sprintf("%sq=%s&c=%s&p=%t&l=%d&o=%d", discoveryPrefix, query, category, includePast, limit, offset)
}

// Get loads a cached page into out. The second return is false on a miss.
func (c *DiscoveryCache) Get(ctx context.Context, key string, out any) (bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache: %w", err)
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return false, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return true, nil
}

// Set stores a page under the key with the discovery TTL.
func (c *DiscoveryCache) Set(ctx context.Context, key string, page any) error {
	b, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	return c.rdb.Set(ctx, key, b, discoveryTTL).Err()
}

// InvalidateAll drops every cached discovery page. Called on any event
// mutation; the listing is cheap to rebuild and correctness beats reuse.
func (c *DiscoveryCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, discoveryPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Subscribe wires the cache to the notification bus so every event
// mutation invalidates the discovery listing. Returns the unsubscribe
// handle.
func (c *DiscoveryCache) Subscribe(bus *notify.Bus) func() {
	return bus.Subscribe(func(change notify.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = c.InvalidateAll(ctx)
	})
}
