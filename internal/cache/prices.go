package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mushroomservice/internal/models"

	"github.com/redis/go-redis/v9"
)

const priceSnapshotKey = "prices:wholesale"

// ErrCacheMiss is returned when no price snapshot is cached.
var ErrCacheMiss = errors.New("cache miss")

// PriceCache stores the wholesale market-price snapshot with a TTL. A nil
// Redis client turns every read into a miss and every write into a no-op.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPriceCache creates a PriceCache with the given TTL.
func NewPriceCache(rdb *redis.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot, or ErrCacheMiss.
func (p *PriceCache) Get(ctx context.Context) ([]models.MarketPrice, error) {
	if p.rdb == nil {
		return nil, ErrCacheMiss
	}
	raw, err := p.rdb.Get(ctx, priceSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var prices []models.MarketPrice
	if err := json.Unmarshal(raw, &prices); err != nil {
		// A corrupt entry is treated as a miss so the caller refreshes it.
		return nil, ErrCacheMiss
	}
	return prices, nil
}

// Set stores a snapshot, replacing any existing one.
func (p *PriceCache) Set(ctx context.Context, prices []models.MarketPrice) error {
	if p.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return p.rdb.Set(ctx, priceSnapshotKey, raw, p.ttl).Err()
}

// Invalidate drops the cached snapshot.
func (p *PriceCache) Invalidate(ctx context.Context) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Del(ctx, priceSnapshotKey).Err()
}
