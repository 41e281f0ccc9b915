package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raymond9734/customer-records-api/internal/models"
)

// DefaultTTL is how long a resolved address is kept
const DefaultTTL = 24 * time.Hour

const keyPrefix = "cep:"

// redisCache implements AddressCache using Redis
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// NewRedisCache connects to Redis and returns an address cache
func NewRedisCache(cfg RedisConfig, logger *slog.Logger) (AddressCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis",
		slog.String("addr", opts.Addr),
	)

	return newRedisCache(client, cfg.TTL, logger), nil
}

func newRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *redisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached address for a CEP
func (c *redisCache) Get(ctx context.Context, cep string) (*models.Address, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+cep).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached address: %w", err)
	}

	var addr models.Address
	if err := json.Unmarshal(data, &addr); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached address: %w", err)
	}

	return &addr, true, nil
}

// Set stores a resolved address with the configured TTL
func (c *redisCache) Set(ctx context.Context, cep string, addr *models.Address) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("failed to marshal address: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+cep, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache address: %w", err)
	}

	c.logger.Debug("address cached",
		slog.String("cep", cep),
	)

	return nil
}

// Close closes the Redis connection
func (c *redisCache) Close() error {
	c.logger.Info("closing Redis connection")
	return c.client.Close()
}

// Health checks if Redis is healthy
func (c *redisCache) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
