package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/VigilNet/FedWatch/pkg/config"
	"github.com/go-redis/redis/v8"
)

// Key patterns for platform state kept in Redis.
const (
	GlobalModelKey     = "fedwatch:global_model"
	DetectionStatsKey  = "fedwatch:detection_stats"
	DeviceTelemetryKey = "fedwatch:device:%s:telemetry"

	defaultTTL = 5 * time.Minute
)

// Cache wraps the Redis client used for snapshots and the broadcast channel.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(cfg config.RedisConfig) (*Cache, error) {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewCacheWithClient(client), nil
}

// NewCacheWithClient wires a pre-built client; tests pass a redismock here.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		ttl:    defaultTTL,
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *Cache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Client exposes the raw redis client for pub/sub.
func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) Close() error {
	return c.client.Close()
}
