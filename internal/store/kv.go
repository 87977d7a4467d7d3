package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Collection keys. Each collection is one JSON value under a fixed key;
// reads and writes are whole-collection. Acceptable only because expected
// sizes are small.
const (
	keyPrefix = "swapmarket:v1:"

	collProducts      = keyPrefix + "products"
	collUsers         = keyPrefix + "users"
	collPurchases     = keyPrefix + "purchases"
	collNotifications = keyPrefix + "notifications"
	collReviews       = keyPrefix + "reviews"
	collWishlist      = keyPrefix + "wishlist"
)

// Collections is the persistence adapter: named collections stored as JSON
// blobs in Redis. A malformed stored value is logged and treated as empty
// rather than propagated as a decode error.
type Collections struct {
	client *redis.Client
	log    *slog.Logger
}

func NewCollections(client *redis.Client, log *slog.Logger) *Collections {
	if log == nil {
		log = slog.Default()
	}
	return &Collections{client: client, log: log}
}

// load reads a collection into dst. dst keeps its zero value when the key is
// absent or the stored JSON is corrupt.
func (c *Collections) load(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("corrupt collection, falling back to empty", "key", key, "err", err)
		return nil
	}
	return nil
}

func (c *Collections) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
