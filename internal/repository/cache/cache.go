// Package cache stores timestamped values in a key-value store. Freshness is
// decided by the reader through a cached.TTLPolicy.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/db"
	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
)

var keyPrefix = domain.KeyPrefix + "cache:"

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache reads and writes timestamped entries. Store failures are logged and
// reported as misses; a cache never fails its caller.
type Cache struct {
	name       string
	store      store
	retention  time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a cache. name labels metrics and namespaces keys. retention
// bounds how long the store keeps an entry (0 keeps it until overwritten).
// cacheTotal is a counter vec with labels "cache" and "result", passed explicitly.
func New(
	name string,
	s store,
	retention time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		name:       name,
		store:      s,
		retention:  retention,
		cacheTotal: cacheTotal,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the entry stored under key.
func (c *Cache) Get(ctx context.Context, key string) (cached.Entry, bool) {
	k := c.storeKey(key)
	data, err := c.store.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cache entry", zap.String("key", k), zap.Error(err))
		}
		return cached.Entry{}, false
	}

	var e cached.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cache entry", zap.String("key", k), zap.Error(err))
		return cached.Entry{}, false
	}
	return e, true
}

// Set stores value under key, stamped with the current time.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	k := c.storeKey(key)
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode cache value", zap.String("key", k), zap.Error(err))
		return
	}
	data, err := json.Marshal(cached.Entry{Value: raw, Timestamp: c.now().UTC()})
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("key", k), zap.Error(err))
		return
	}

	// Stores keep entries with a non-positive TTL until overwritten.
	if err := c.store.SetWithTTL(ctx, k, data, c.retention); err != nil {
		c.logger.Warn("Failed to write cache entry", zap.String("key", k), zap.Error(err))
	}
}

// Delete removes the entry stored under key.
func (c *Cache) Delete(ctx context.Context, key string) {
	k := c.storeKey(key)
	if err := c.store.Del(ctx, k); err != nil {
		c.logger.Warn("Failed to delete cache entry", zap.String("key", k), zap.Error(err))
	}
}

// Observe counts a lookup outcome ("hit", "miss", "expired").
func (c *Cache) Observe(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(c.name, result).Inc()
	}
}

func (c *Cache) storeKey(key string) string {
	return keyPrefix + c.name + ":" + key
}
