package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryCache keeps rate tables in process for ttl.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*RateTable
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]*RateTable),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, base string) (*RateTable, error) {
	c.mu.RLock()
	table, ok := c.entries[base]
	c.mu.RUnlock()

	if !ok || c.now().Sub(table.FetchedAt) >= c.ttl {
		return nil, nil
	}
	return table, nil
}

func (c *MemoryCache) Set(_ context.Context, table *RateTable) error {
	c.mu.Lock()
	c.entries[table.Base] = table
	c.mu.Unlock()
	return nil
}

// RedisCache shares rate tables between instances.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, base string) (*RateTable, error) {
	data, err := c.client.Get(ctx, ratesKey(base)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var table RateTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode cached rates: %w", err)
	}
	return &table, nil
}

func (c *RedisCache) Set(ctx context.Context, table *RateTable) error {
	payload, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ratesKey(table.Base), payload, c.ttl).Err()
}

func ratesKey(base string) string {
	return "cache:fx:rates:" + base
}
