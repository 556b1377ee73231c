package service

import (
	"context"
	"time"

	"mushroomservice/internal/cache"
	"mushroomservice/internal/identity"
	"mushroomservice/internal/models"
	"mushroomservice/internal/observability"
)

// PriceService serves the wholesale market-price board. Rows come from the
// upstream feed (currently a curated snapshot, pending the USDA AMS
// integration) and are cached in Redis with a TTL. When Redis is down the
// board still renders, just uncached.
type PriceService struct {
	cache  *cache.PriceCache
	policy identity.Policy
}

func NewPriceService(priceCache *cache.PriceCache, policy identity.Policy) *PriceService {
	return &PriceService{
		cache:  priceCache,
		policy: policy,
	}
}

// List returns the current price snapshot, cached when possible.
func (s *PriceService) List(ctx context.Context) ([]models.MarketPrice, error) {
	cached, err := s.cache.Get(ctx)
	if err == nil {
		return cached, nil
	}
	if err != cache.ErrCacheMiss {
		observability.GlobalLogger.WarnContext(ctx, "price cache read failed, serving uncached",
			"error", err)
	}

	prices := wholesalePrices(time.Now())
	if err := s.cache.Set(ctx, prices); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "price cache write failed", "error", err)
	}
	return prices, nil
}

// Refresh drops the cached snapshot and rebuilds it. Admin only.
func (s *PriceService) Refresh(
	ctx context.Context, actor identity.Actor,
) ([]models.MarketPrice, error) {
	if !s.policy.IsAdmin(actor) {
		return nil, models.NewUnauthorizedError("Administrator access required")
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "price cache invalidate failed", "error", err)
	}
	return s.List(ctx)
}

// wholesalePrices is the curated wholesale snapshot.
// TODO: replace with the USDA AMS terminal-market feed once API access is
// approved.
func wholesalePrices(now time.Time) []models.MarketPrice {
	date := now.Format("2006-01-02")
	return []models.MarketPrice{
		{
			Commodity: "Oyster Mushrooms",
			Variety:   "Blue",
			Price:     "8.00-10.00",
			Unit:      "lb",
			Location:  "Boston",
			Date:      date,
			Trend:     models.TrendUp,
		},
		{
			Commodity: "Shiitake Mushrooms",
			Variety:   "Fresh",
			Price:     "12.00-15.00",
			Unit:      "lb",
			Location:  "New York",
			Date:      date,
			Trend:     models.TrendStable,
		},
		{
			Commodity: "Lion's Mane",
			Variety:   "Fresh",
			Price:     "14.00-18.00",
			Unit:      "lb",
			Location:  "Chicago",
			Date:      date,
			Trend:     models.TrendDown,
		},
		{
			Commodity: "Maitake",
			Variety:   "Frondosa",
			Price:     "16.00-20.00",
			Unit:      "lb",
			Location:  "Philadelphia",
			Date:      date,
			Trend:     models.TrendStable,
		},
		{
			Commodity: "Chestnut Mushrooms",
			Variety:   "Fresh",
			Price:     "10.00-13.00",
			Unit:      "lb",
			Location:  "San Francisco",
			Date:      date,
			Trend:     models.TrendUp,
		},
	}
}
