// Package redis provides the optional cache layer. A missing or
// unreachable Redis degrades to database-only operation instead of
// failing startup.
package redis

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis from the configured URL. It returns nil when the
// URL is empty or the server is unreachable; callers treat a nil client
// as "caching disabled".
func Connect(rawURL string) *redis.Client {
	if rawURL == "" {
		log.Println("[REDIS] Not configured, caching disabled")
		return nil
	}

	var client *redis.Client
	if strings.HasPrefix(rawURL, "redis://") || strings.HasPrefix(rawURL, "rediss://") {
		opts, err := redis.ParseURL(rawURL)
		if err != nil {
			log.Printf("[REDIS] Invalid REDIS_URL: %v. Caching disabled.", err)
			return nil
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: rawURL})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Warning: could not connect: %v. Falling back to PostgreSQL only.", err)
		client.Close()
		return nil
	}

	log.Println("[REDIS] Connected successfully")
	return client
}

// Cache wraps redis.Client behind the CacheRepository interface the
// services consume.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Set stores a key-value pair with expiration
func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

// Del deletes keys
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}
