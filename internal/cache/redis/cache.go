// Package redis provides a shared TTL price cache backed by redis
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

// Cache stores quotes as JSON strings with a redis TTL.
// Cache failures are logged and treated as misses.
type Cache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	logger *common.Logger
}

// NewClient connects to redis and verifies the connection with PING.
func NewClient(ctx context.Context, cfg common.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	return rdb, nil
}

// New wraps a connected client.
func New(client *goredis.Client, prefix string, ttl time.Duration, logger *common.Logger) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Get returns the cached quote, or false on miss or error.
func (c *Cache) Get(ctx context.Context, key string) (*models.PriceData, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Price cache read failed")
		}
		return nil, false
	}

	var price models.PriceData
	if err := json.Unmarshal([]byte(raw), &price); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Price cache entry is corrupt")
		return nil, false
	}
	return &price, true
}

// Set stores price under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, price *models.PriceData) {
	if price == nil {
		return
	}
	data, err := json.Marshal(price)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Price cache encode failed")
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Price cache write failed")
	}
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Compile-time check
var _ interfaces.PriceCache = (*Cache)(nil)
