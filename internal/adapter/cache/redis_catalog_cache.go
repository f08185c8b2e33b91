package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
	"github.com/jhjdev/bartender-order-service-sub000/internal/logging"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

// CachingCatalog is a read-through Redis layer in front of the drink catalog.
// Keep the TTL short: a cached price is only used for NEW item snapshots, so
// the staleness window equals the TTL.
type CachingCatalog struct {
	rdb  *redis.Client
	next usecase.Catalog
	ttl  time.Duration
}

func NewCachingCatalog(rdb *redis.Client, next usecase.Catalog, ttl time.Duration) *CachingCatalog {
	return &CachingCatalog{rdb: rdb, next: next, ttl: ttl}
}

func drinkKey(id string) string { return "drink:" + id }

func (c *CachingCatalog) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Drink, error) {
	out := make(map[string]domain.Drink, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	misses := ids
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = drinkKey(id)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		// Cache down is not fatal; fall through to the source.
		logging.FromCtx(ctx).Warn("catalog cache read failed", "err", err)
	} else {
		misses = misses[:0:0]
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				misses = append(misses, ids[i])
				continue
			}
			var d domain.Drink
			if err := json.Unmarshal([]byte(s), &d); err != nil {
				misses = append(misses, ids[i])
				continue
			}
			out[ids[i]] = d
		}
	}

	if len(misses) == 0 {
		return out, nil
	}
	fresh, err := c.next.FindByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, d := range fresh {
		out[id] = d
		if b, err := json.Marshal(d); err == nil {
			if err := c.rdb.Set(ctx, drinkKey(id), b, c.ttl).Err(); err != nil {
				logging.FromCtx(ctx).Warn("catalog cache write failed", "drink_id", id, "err", err)
			}
		}
	}
	return out, nil
}

var _ usecase.Catalog = (*CachingCatalog)(nil)
