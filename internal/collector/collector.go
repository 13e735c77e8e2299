// Package collector recomputes per-position market trends from the
// completed-transfer history.
package collector

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"AgencyEngine/internal/model"
)

// DefaultWindow is the lookback compared against the window before it.
const DefaultWindow = 90 * 24 * time.Hour

// Collector turns transfer history into market trends.
type Collector struct {
	Source HistorySource
	Window time.Duration
	log    zerolog.Logger
}

// NewCollector creates a Collector. A zero window uses DefaultWindow.
func NewCollector(src HistorySource, window time.Duration, log zerolog.Logger) *Collector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Collector{Source: src, Window: window, log: log.With().Str("service", "collector").Logger()}
}

// Collect computes one trend per position as of now. The average price is the
// mean fee inside the latest window; the change compares it with the window
// before. Positions without recent deals report zero price and change.
func (c *Collector) Collect(now time.Time) []model.MarketTrend {
	recentStart := now.Add(-c.Window)
	prevStart := recentStart.Add(-c.Window)

	recent := map[model.Position][]float64{}
	previous := map[model.Position][]float64{}
	for _, t := range c.Source.CompletedTransfers() {
		switch {
		case t.Date.After(now):
			continue
		case t.Date.After(recentStart):
			recent[t.Position] = append(recent[t.Position], float64(t.Fee))
		case t.Date.After(prevStart):
			previous[t.Position] = append(previous[t.Position], float64(t.Fee))
		}
	}

	trends := make([]model.MarketTrend, 0, len(model.Positions))
	for _, pos := range model.Positions {
		tr := model.MarketTrend{Position: pos, Timestamp: now, NumberOfTransfers: len(recent[pos])}
		if len(recent[pos]) > 0 {
			avg := stat.Mean(recent[pos], nil)
			tr.AveragePrice = int64(math.Round(avg))
			if len(previous[pos]) > 0 {
				prev := stat.Mean(previous[pos], nil)
				if prev > 0 {
					tr.PriceChange = (avg - prev) / prev * 100
				}
			}
		}
		trends = append(trends, tr)
	}

	c.log.Debug().Str("source", c.Source.Name()).Int("positions", len(trends)).Msg("Market trends collected")
	return trends
}
