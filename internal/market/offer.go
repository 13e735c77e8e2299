package market

import (
	"math"
	"time"

	"AgencyEngine/internal/model"
)

// ContractMultiplier scales a player's value by contract time left:
// ≤6 months 0.5, ≤12 months 0.75, ≤24 months 1.0, longer 1.25.
func ContractMultiplier(monthsRemaining int) float64 {
	switch {
	case monthsRemaining <= 6:
		return 0.5
	case monthsRemaining <= 12:
		return 0.75
	case monthsRemaining <= 24:
		return 1.0
	default:
		return 1.25
	}
}

// MinimumOffer is the lowest opening bid the selling club will consider:
// value × minRatio × contract multiplier × (1 + potential/100 × potentialPremium).
func MinimumOffer(p model.Player, now time.Time, minRatio, potentialPremium float64) int64 {
	contract := ContractMultiplier(p.ContractMonthsRemaining(now))
	potential := 1 + float64(p.Potential)/100*potentialPremium
	return int64(math.Round(float64(p.Value) * minRatio * contract * potential))
}
