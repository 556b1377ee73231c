package models

// Market price trends.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// MarketPrice is one wholesale price row. Rows are not persisted; the
// price service assembles them from the upstream feed and caches the
// snapshot in Redis.
type MarketPrice struct {
	Commodity string `json:"commodity"`
	Variety   string `json:"variety"`
	Price     string `json:"price"`
	Unit      string `json:"unit"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Trend     string `json:"trend"`
}
