package transfer

import (
	"AgencyEngine/internal/market"
	"AgencyEngine/internal/model"
)

// Guidance is the market read on an active offer.
type Guidance struct {
	OfferID      string
	Minimum      int64
	Recommended  int64
	Low          int64
	High         int64
	Direction    model.TrendDirection
	Probability  market.Probability
	SimilarDeals []model.CompletedTransfer
}

// Guidance prices the offer's player against recent deals and trends and
// estimates how likely the current amount is to succeed. It never changes
// the book: an overdue offer is reported but left for the expiry sweep.
func (e *Engine) Guidance(offerID string) (Guidance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, err := e.lookupActive(offerID, "advise on")
	if err != nil {
		return Guidance{}, err
	}
	o := e.book.Offers[i]
	p, err := e.roster.Get(o.PlayerID)
	if err != nil {
		return Guidance{}, err
	}

	today := e.clock.Today()
	trend := market.TrendFor(e.book.Trends, p.Position)
	similar := market.SimilarDeals(p, e.book.Completed)
	rec := market.RecommendedPrice(p, trend, similar)
	low, high := market.PriceRange(rec, trend)

	g := Guidance{
		OfferID:      o.ID,
		Minimum:      market.MinimumOffer(p, today, e.cfg.MinOfferRatio, e.cfg.PotentialPremium),
		Recommended:  rec,
		Low:          low,
		High:         high,
		Direction:    model.TrendStable,
		Probability:  market.SuccessProbability(o.CurrentOffer, rec, market.DaysUntil(today, o.ExpiresAt), p),
		SimilarDeals: similar,
	}
	if trend != nil {
		g.Direction = market.Direction(trend.PriceChange)
	}
	return g, nil
}
