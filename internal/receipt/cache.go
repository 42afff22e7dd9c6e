package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/billsplittr/internal/models"
)

// Cache stores parsed bills by image digest. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*models.ParsedBill, error)
	Set(ctx context.Context, key string, bill *models.ParsedBill) error
}

// MemoryCache is an in-process Cache. Entries are stored encoded so callers
// never share a ParsedBill with the cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl. A zero ttl never expires.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.ParsedBill, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.ttl > 0 && c.now().After(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return nil, nil
	}
	var bill models.ParsedBill
	if err := json.Unmarshal(e.data, &bill); err != nil {
		return nil, fmt.Errorf("failed to decode cached bill: %w", err)
	}
	return &bill, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, bill *models.ParsedBill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to encode bill: %w", err)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

const redisKeyPrefix = "billsplittr:receipt:"

// RedisCache is a Cache shared between server instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url (redis://...) and checks it is reachable.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis not available: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.ParsedBill, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	var bill models.ParsedBill
	if err := json.Unmarshal(data, &bill); err != nil {
		return nil, fmt.Errorf("failed to decode cached bill: %w", err)
	}
	return &bill, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, bill *models.ParsedBill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to encode bill: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
