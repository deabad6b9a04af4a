package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:available"

// CatalogCache holds the serialized available-drone list so the matching
// engine's catalog read doesn't hit Postgres on every recommendation.
type CatalogCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *goredis.Client, ttlSeconds int) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *CatalogCache) Set(ctx context.Context, drones any) error {
	bytes, err := json.Marshal(drones)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return c.client.Set(ctx, catalogKey, bytes, c.ttl).Err()
}

// Get unmarshals the cached list into dest and reports whether it was found.
func (c *CatalogCache) Get(ctx context.Context, dest any) (bool, error) {
	bytes, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get catalog: %w", err)
	}
	if err := json.Unmarshal(bytes, dest); err != nil {
		return false, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return true, nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
