// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_export/internal/feature/export/domain/entity"
	"stock_export/internal/feature/export/usecase"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying provider client. Caching is best effort: cache
// errors never fail a request, and a nil Redis client bypasses the cache.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "market".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Quote retrieves a quote, checking cache first then falling back to the provider.
// Failed lookups are not cached, so a symbol rejected once is retried next time.
func (c *CachingMarketRepository) Quote(ctx context.Context, symbol string) (entity.Quote, error) {
	if c.rdb == nil {
		return c.inner.Quote(ctx, symbol)
	}

	key := c.quoteKey(symbol)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Quote
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.Quote(ctx, symbol)
	if err != nil {
		return entity.Quote{}, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Historical retrieves historical rows, checking cache first then falling
// back to the provider.
func (c *CachingMarketRepository) Historical(ctx context.Context, symbol string, start, end time.Time, interval entity.Interval) ([]entity.HistoricalRow, error) {
	if c.rdb == nil {
		return c.inner.Historical(ctx, symbol, start, end, interval)
	}

	key := c.historicalKey(symbol, start, end, interval)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.HistoricalRow
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	out, err := c.inner.Historical(ctx, symbol, start, end, interval)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// quoteKey generates a cache key for a quote lookup.
func (c *CachingMarketRepository) quoteKey(symbol string) string {
	return fmt.Sprintf("%s:quote:%s", c.namespace, safe(symbol))
}

// historicalKey generates a cache key for a historical data query.
func (c *CachingMarketRepository) historicalKey(symbol string, start, end time.Time, interval entity.Interval) string {
	return fmt.Sprintf("%s:hist:%s:%s:%d:%d",
		c.namespace,
		safe(symbol),
		safe(string(interval)),
		start.Unix(),
		end.Unix(),
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
