package scouting

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"AgencyEngine/internal/model"
)

// ReportAccuracy is how reliable a scout's read on a player of pos is, in [0,1].
func ReportAccuracy(s model.Scout, pos model.Position) float64 {
	acc := float64(s.Abilities.Evaluation) / 100
	if s.Specialises(pos) {
		acc *= 1.2
	}
	return math.Min(1, math.Max(0, acc))
}

// GenerateScoutingReport files a report by a hired scout on p.
func (e *Engine) GenerateScoutingReport(scoutID string, p model.Player) (model.ScoutingReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.scoutIndex(scoutID)
	if i < 0 {
		return model.ScoutingReport{}, model.NotFoundf("scout", scoutID)
	}
	return e.fileReport(&e.state.Scouts[i], p, e.clock.Today()), nil
}

func (e *Engine) fileReport(s *model.Scout, p model.Player, today time.Time) model.ScoutingReport {
	acc := ReportAccuracy(*s, p.Position)
	spread := (1 - acc) * 20
	estimate := func(v int) int {
		noise := (e.rng.Float64()*2 - 1) * spread
		return max(1, min(99, int(math.Round(float64(v)+noise))))
	}

	est := map[string]int{
		"rating":    estimate(p.Rating),
		"potential": estimate(p.Potential),
	}
	best, bestVal := "", 0
	for _, name := range slices.Sorted(maps.Keys(p.Attributes)) {
		v := estimate(p.Attributes[name])
		est[name] = v
		if v > bestVal {
			best, bestVal = name, v
		}
	}

	obs := []string{fmt.Sprintf("Estimated rating %d with potential %d", est["rating"], est["potential"])}
	if est["potential"]-est["rating"] >= 10 {
		obs = append(obs, "Significant room for growth")
	}
	if best != "" {
		obs = append(obs, "Standout attribute: "+best)
	}
	switch {
	case acc >= 0.8:
		obs = append(obs, "High confidence assessment")
	case acc >= 0.5:
		obs = append(obs, "Moderate confidence assessment")
	default:
		obs = append(obs, "Low confidence assessment, a second opinion is advised")
	}

	r := model.ScoutingReport{
		ID:           e.ids.Next("report"),
		PlayerID:     p.ID,
		ScoutID:      s.ID,
		Accuracy:     acc * 100,
		Estimates:    est,
		Observations: obs,
		CreatedAt:    today,
	}
	e.state.Reports = append(e.state.Reports, r)

	n := float64(s.Stats.ReportsFiled)
	s.Stats.Accuracy = (s.Stats.Accuracy*n + r.Accuracy) / (n + 1)
	s.Stats.ReportsFiled++
	return r
}
