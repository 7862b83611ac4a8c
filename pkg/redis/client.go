package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
	log        *zap.Logger
}

// Cache key formats. KeyAnnualFeePaid takes resident ID and year.
const (
	KeyPollTally     = "polls:%d:tally"
	KeyPollList      = "polls:list:%s"
	KeyAnnualFeePaid = "ledger:resident:%d:annual_paid:%d"
	KeyResidentStats = "ledger:resident:%d:payment_stats"
)

// Cache TTLs. Tallies change on every vote so they stay short; the
// annual-paid flag flips at most once a year per resident.
const (
	TTLPollTally     = 30 * time.Second
	TTLPollList      = 30 * time.Second
	TTLAnnualFeePaid = 1 * time.Hour
	TTLResidentStats = 5 * time.Minute
)

// NewClient creates a new Redis client
func NewClient(redisURL string, environment string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment), log: log}, nil
}

// NewClientFromAddr builds a client against a raw address without pinging,
// used by tests running against miniredis.
func NewClientFromAddr(addr string, environment string, log *zap.Logger) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment), log: log}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Get retrieves a value from Redis. Returns an empty string with no error on
// cache miss.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value in Redis with a TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// SetNX stores a value only if the key does not exist
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

// Exists checks whether any of the keys exist
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Exists(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis exists: %w", err)
	}
	return n, nil
}

// Delete removes keys from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
