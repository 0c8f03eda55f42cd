package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/ordena-app/ordena-backend/pkg/users"
)

// UserDataCacheInterface is the interface for a user data cache
type UserDataCacheInterface interface {
	Add(ctx context.Context, key string, entry *UserDataCacheEntry) error
	Invalidate(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*UserDataCacheEntry, error)
}

// UserDataCacheEntry holds the user data an agenda build needs repeatedly
type UserDataCacheEntry struct {
	User *users.User
}

// UserDataCacheMemory caches often needed user data in process memory
type UserDataCacheMemory struct {
	Cache *lru.Cache
}

// NewUserCacheMemory initializes a new UserDataCacheMemory
func NewUserCacheMemory() (*UserDataCacheMemory, error) {
	memoryCache, err := lru.New(100)
	if err != nil {
		return nil, err
	}

	return &UserDataCacheMemory{
		Cache: memoryCache,
	}, nil
}

// Add adds a UserDataCacheEntry to the cache
func (c *UserDataCacheMemory) Add(_ context.Context, key string, entry *UserDataCacheEntry) error {
	_ = c.Cache.Add(key, entry)
	return nil
}

// Invalidate removes a UserDataCacheEntry from the cache
func (c *UserDataCacheMemory) Invalidate(_ context.Context, key string) error {
	c.Cache.Remove(key)
	return nil
}

// Get retrieves a UserDataCacheEntry from the cache
func (c *UserDataCacheMemory) Get(_ context.Context, key string) (*UserDataCacheEntry, error) {
	result, ok := c.Cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("could not find key %s in user cache", key)
	}

	entry, ok := result.(*UserDataCacheEntry)
	if !ok {
		return nil, fmt.Errorf("cache entry was not a user cache entry")
	}

	return entry, nil
}

// UserDataCacheRedis caches often needed user data in redis
type UserDataCacheRedis struct {
	Cache *cache.Cache
}

// NewUserCacheRedis initializes a new UserDataCacheRedis
func NewUserCacheRedis(redisClient *redis.Client) (*UserDataCacheRedis, error) {
	redisCache := cache.New(&cache.Options{
		Redis: redisClient,
	})

	return &UserDataCacheRedis{
		Cache: redisCache,
	}, nil
}

// Add adds a UserDataCacheEntry
func (c *UserDataCacheRedis) Add(ctx context.Context, key string, entry *UserDataCacheEntry) error {
	return c.Cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: entry,
		TTL:   time.Minute * 10,
	})
}

// Invalidate invalidates an entry
func (c *UserDataCacheRedis) Invalidate(ctx context.Context, key string) error {
	return c.Cache.Delete(ctx, key)
}

// Get retrieves a UserDataCacheEntry
func (c *UserDataCacheRedis) Get(ctx context.Context, key string) (*UserDataCacheEntry, error) {
	result := UserDataCacheEntry{}
	err := c.Cache.Get(ctx, key, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
