package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
)

// Client backs logout revocation and login throttling. Every key is put
// under the configured prefix.
type Client struct {
	rdb    *goredis.Client
	prefix string
	logger *zap.Logger
}

// NewClient connects and pings within the dial timeout.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return newClient(rdb, cfg.KeyPrefix, logger), nil
}

func newClient(rdb *goredis.Client, prefix string, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, prefix: prefix, logger: logger}
}

func (c *Client) key(parts ...string) string {
	k := c.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

// BlacklistToken revokes jti for ttl, normally the token's remaining life.
// An already expired token needs no entry.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, c.key("revoked", jti), 1, ttl).Err()
}

// IsBlacklisted reports whether jti was revoked.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key("revoked", jti)).Result()
	if err != nil {
		c.logger.Warn("revocation lookup failed", zap.Error(err))
		return false, err
	}
	return n > 0, nil
}

// CheckRateLimit counts a hit against key in a fixed window starting at
// the first hit, and reports whether the caller is still within limit.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := c.key("ratelimit", key)
	pipe := c.rdb.TxPipeline()
	hits := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	if hits.Val() > int64(limit) {
		c.logger.Debug("rate limit hit", zap.String("key", key), zap.Int64("hits", hits.Val()))
		return false, nil
	}
	return true, nil
}

// Ping is used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
