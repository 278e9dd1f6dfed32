// Package memory provides an in-process TTL price cache
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

// Cache stores quotes in process memory until their TTL expires.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache whose entries live for ttl. Expired entries are
// purged every 2×ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

// Get returns a copy of the cached quote.
func (c *Cache) Get(_ context.Context, key string) (*models.PriceData, bool) {
	v, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	p, ok := v.(models.PriceData)
	if !ok {
		return nil, false
	}
	return &p, true
}

// Set stores a copy of price with the default TTL.
func (c *Cache) Set(_ context.Context, key string, price *models.PriceData) {
	if price == nil {
		return
	}
	c.store.Set(key, *price, gocache.DefaultExpiration)
}

// Flush removes every entry.
func (c *Cache) Flush() {
	c.store.Flush()
}

// Compile-time check
var _ interfaces.PriceCache = (*Cache)(nil)
