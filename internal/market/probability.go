package market

import (
	"fmt"
	"math"

	"AgencyEngine/internal/model"
)

// Factor is one weighted input of the success estimate.
type Factor struct {
	Name       string
	RawScore   float64
	Weight     float64
	Weighted   float64
	Commentary string
}

// Probability is the deal-success estimate with its breakdown.
type Probability struct {
	Factors []Factor
	Percent float64 // 0..100
}

// SuccessProbability scores an offer as
// 0.6 × price + 0.2 × urgency + 0.2 × form, scaled to a percentage.
func SuccessProbability(offer, recommended int64, daysUntilExpiry float64, p model.Player) Probability {
	f1 := scorePrice(offer, recommended)
	f2 := scoreUrgency(daysUntilExpiry)
	f3 := scoreForm(p)

	pct := (f1.Weighted + f2.Weighted + f3.Weighted) * 100
	return Probability{
		Factors: []Factor{f1, f2, f3},
		Percent: clamp(pct, 0, 100),
	}
}

// scorePrice: 0.8 at or above the recommended price, otherwise the offer's
// ratio to it with a floor of 0.2.
func scorePrice(offer, recommended int64) Factor {
	var score float64
	switch {
	case offer >= recommended:
		score = 0.8
	default:
		r := float64(recommended)
		score = math.Max(0.2, 1+(float64(offer)-r)/r)
	}
	return Factor{
		Name:       "price",
		RawScore:   score,
		Weight:     0.6,
		Weighted:   score * 0.6,
		Commentary: fmt.Sprintf("offer %d vs recommended %d", offer, recommended),
	}
}

// scoreUrgency saturates at one week left on the offer.
func scoreUrgency(days float64) Factor {
	score := clamp(math.Min(1, days/7), 0, 1)
	return Factor{
		Name:       "urgency",
		RawScore:   score,
		Weight:     0.2,
		Weighted:   score * 0.2,
		Commentary: fmt.Sprintf("%.0f days to expiry", days),
	}
}

// scoreForm uses player form out of 100, 0.5 when unknown.
func scoreForm(p model.Player) Factor {
	score := 0.5
	commentary := "form unknown"
	if p.Form != nil {
		score = clamp(float64(*p.Form)/100, 0, 1)
		commentary = fmt.Sprintf("form %d", *p.Form)
	}
	return Factor{
		Name:       "form",
		RawScore:   score,
		Weight:     0.2,
		Weighted:   score * 0.2,
		Commentary: commentary,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
