// Package market holds the pure pricing analytics used during negotiation.
// Nothing here mutates state; every function is deterministic in its inputs.
package market

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"AgencyEngine/internal/model"
)

const (
	maxSimilarDeals   = 5
	similarAgeSpan    = 2
	similarValueRatio = 0.20

	weightBase    = 0.4
	weightTrend   = 0.3
	weightSimilar = 0.3

	minRangePercent = 10.0
)

// SimilarDeals returns up to five of the most recent completed transfers for
// the same position, with age within two years and fee within 20% of the
// player's value.
func SimilarDeals(p model.Player, history []model.CompletedTransfer) []model.CompletedTransfer {
	var out []model.CompletedTransfer
	lo := float64(p.Value) * (1 - similarValueRatio)
	hi := float64(p.Value) * (1 + similarValueRatio)
	for _, t := range history {
		if t.Position != p.Position {
			continue
		}
		if abs(t.PlayerAge-p.Age) > similarAgeSpan {
			continue
		}
		fee := float64(t.Fee)
		if fee < lo || fee > hi {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > maxSimilarDeals {
		out = out[:maxSimilarDeals]
	}
	return out
}

// RecommendedPrice blends 40% base value, 30% trend-adjusted value and 30% the
// mean fee of similar deals. A missing trend counts as no change; with no
// similar deals their share falls back to the base value.
func RecommendedPrice(p model.Player, trend *model.MarketTrend, similar []model.CompletedTransfer) int64 {
	base := float64(p.Value)

	adjusted := base
	if trend != nil {
		adjusted = base * (1 + trend.PriceChange/100)
	}

	similarAvg := base
	if len(similar) > 0 {
		fees := make([]float64, len(similar))
		for i, t := range similar {
			fees[i] = float64(t.Fee)
		}
		similarAvg = stat.Mean(fees, nil)
	}

	price := weightBase*base + weightTrend*adjusted + weightSimilar*similarAvg
	if price < 0 {
		price = 0
	}
	return int64(math.Round(price))
}

// PriceRange returns recommended ± max(10%, |trend change|).
func PriceRange(recommended int64, trend *model.MarketTrend) (low, high int64) {
	pct := minRangePercent
	if trend != nil {
		pct = math.Max(pct, math.Abs(trend.PriceChange))
	}
	delta := float64(recommended) * pct / 100
	low = int64(math.Round(float64(recommended) - delta))
	high = int64(math.Round(float64(recommended) + delta))
	if low < 0 {
		low = 0
	}
	return low, high
}

// Direction classifies a percent price change.
func Direction(priceChange float64) model.TrendDirection {
	switch {
	case priceChange > 5:
		return model.TrendUp
	case priceChange < -5:
		return model.TrendDown
	default:
		return model.TrendStable
	}
}

// TrendFor picks the trend for pos, or nil if none is known.
func TrendFor(trends []model.MarketTrend, pos model.Position) *model.MarketTrend {
	for i := range trends {
		if trends[i].Position == pos {
			return &trends[i]
		}
	}
	return nil
}

// DaysUntil returns whole days from now to expiry, negative once passed.
func DaysUntil(now, expiry time.Time) float64 {
	return math.Floor(expiry.Sub(now).Hours() / 24)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
