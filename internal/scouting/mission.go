package scouting

import (
	"fmt"
	"math"
	"slices"
	"time"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/model"
	"AgencyEngine/internal/random"
)

const (
	CategoryMissions = "scouting_missions"
	CategoryEvents   = "scouting_events"
)

// DistanceMultiplier scales operational cost by travel distance.
func DistanceMultiplier(t model.DistanceType) (float64, error) {
	switch t {
	case model.Local:
		return 1, nil
	case model.Nearby:
		return 1.5, nil
	case model.Continental:
		return 2, nil
	case model.International:
		return 3, nil
	default:
		return 0, fmt.Errorf("unknown distance type %q", t)
	}
}

// DailyOperational is the per-day running cost of a scout of the given level.
func DailyOperational(level int) int64 {
	return 100 + int64(level)*50
}

// MissionCost prices a mission: prorated salary plus operational costs, the
// latter paid again scaled by distance.
func MissionCost(s model.Scout, c model.Country, durationDays int) (int64, error) {
	mult, err := DistanceMultiplier(c.Type)
	if err != nil {
		return 0, err
	}
	days := float64(durationDays)
	daily := float64(DailyOperational(s.Level))
	cost := float64(s.Salary)*(days/30) + daily*days + daily*days*mult
	return int64(math.Round(cost)), nil
}

// MissionResult describes one completed mission.
type MissionResult struct {
	Mission model.ScoutMission
	Players []model.Player
	Reports []model.ScoutingReport
}

// DayResult is what a single simulated day produced.
type DayResult struct {
	Completed []MissionResult
	Generated []model.ScoutingEvent
}

// StartMission assigns an idle scout to a country, paying the full cost
// upfront. Nothing changes if the scout is busy or funds are short.
func (e *Engine) StartMission(scoutID, countryID string, durationDays int) (model.ScoutMission, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if durationDays < 1 {
		return model.ScoutMission{}, fmt.Errorf("mission duration must be >= 1 day, got %d", durationDays)
	}
	i := e.scoutIndex(scoutID)
	if i < 0 {
		return model.ScoutMission{}, model.NotFoundf("scout", scoutID)
	}
	country, ok := e.countries[countryID]
	if !ok {
		return model.ScoutMission{}, model.NotFoundf("country", countryID)
	}
	scout := &e.state.Scouts[i]
	if scout.Busy() {
		return model.ScoutMission{}, fmt.Errorf("start mission for %s: %w", scoutID, model.ErrScoutBusy)
	}
	cost, err := MissionCost(*scout, country, durationDays)
	if err != nil {
		return model.ScoutMission{}, err
	}
	desc := fmt.Sprintf("%s: %d day mission to %s", scout.Name, durationDays, country.Name)
	if _, err := e.treasury.Spend(cost, CategoryMissions, desc); err != nil {
		return model.ScoutMission{}, fmt.Errorf("start mission for %s: %w", scoutID, err)
	}

	today := e.clock.Today()
	m := model.ScoutMission{
		ID:            e.ids.Next("mission"),
		ScoutID:       scoutID,
		CountryID:     countryID,
		StartDate:     today,
		DurationDays:  durationDays,
		DaysRemaining: durationDays,
		Cost:          cost,
	}
	e.state.Missions = append(e.state.Missions, m)
	scout.CurrentMission = m.ID

	e.log.Info().Str("scout_id", scoutID).Str("country", countryID).Int64("cost", cost).Msg("Mission started")
	e.pub.Publish(today, module, &events.MissionData{Type: events.MissionStarted, Mission: m})
	return m, nil
}

// CancelMission recalls a scout early. The upfront cost is not refunded.
func (e *Engine) CancelMission(scoutID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.scoutIndex(scoutID)
	if i < 0 {
		return model.NotFoundf("scout", scoutID)
	}
	mi := slices.IndexFunc(e.state.Missions, func(m model.ScoutMission) bool { return m.ScoutID == scoutID })
	if mi < 0 {
		return model.NotFoundf("mission for scout", scoutID)
	}
	m := e.state.Missions[mi]
	e.state.Missions = slices.Delete(e.state.Missions, mi, mi+1)
	e.state.Scouts[i].CurrentMission = ""

	e.pub.Publish(e.clock.Today(), module, &events.MissionData{Type: events.MissionCancelled, Mission: m})
	return nil
}

// Missions returns copies of all active missions.
func (e *Engine) Missions() []model.ScoutMission {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.state.Missions)
}

// AdvanceDay rolls for events on every active mission, counts missions down
// and completes those that ran out. It never fails; problems are logged.
func (e *Engine) AdvanceDay(today time.Time) DayResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res DayResult
	remaining := e.state.Missions[:0:0]
	for _, m := range e.state.Missions {
		si := e.scoutIndex(m.ScoutID)
		if si < 0 {
			e.log.Warn().Str("mission_id", m.ID).Str("scout_id", m.ScoutID).Msg("Dropping mission without scout")
			continue
		}
		if ev, ok := e.rollEvent(e.state.Scouts[si], m.CountryID, today); ok {
			res.Generated = append(res.Generated, ev)
		}
		m.DaysRemaining--
		if m.DaysRemaining > 0 {
			remaining = append(remaining, m)
			continue
		}
		res.Completed = append(res.Completed, e.completeMission(si, m, today))
	}
	e.state.Missions = remaining
	return res
}

func (e *Engine) completeMission(si int, m model.ScoutMission, today time.Time) MissionResult {
	scout := &e.state.Scouts[si]
	country := e.countries[m.CountryID]

	rate := float64(scout.Abilities.Evaluation+scout.Abilities.Youth) / 200
	count := 1
	for range 2 {
		if e.rng.Float64() < rate {
			count++
		}
	}

	res := MissionResult{Mission: m}
	for range count {
		c := missionConstraints(*scout, country, e.rng)
		p, err := e.gen.GeneratePlayer(c)
		if err != nil {
			e.log.Error().Err(err).Str("mission_id", m.ID).Msg("Player generation failed")
			continue
		}
		e.roster.Add(p)
		report := e.fileReport(scout, p, today)
		res.Players = append(res.Players, p)
		res.Reports = append(res.Reports, report)
	}

	scout.Stats.MissionsCompleted++
	scout.Stats.SuccessfulFinds += len(res.Players)
	scout.CurrentMission = ""

	playerIDs := make([]string, 0, len(res.Players))
	for _, p := range res.Players {
		playerIDs = append(playerIDs, p.ID)
	}
	e.log.Info().Str("scout_id", scout.ID).Int("found", len(playerIDs)).Msg("Mission completed")
	e.pub.Publish(today, module, &events.MissionData{Type: events.MissionCompleted, Mission: m, PlayerIDs: playerIDs})
	return res
}

// missionConstraints shapes a mission discovery: better scouts find better
// players, and specialists find their own position.
func missionConstraints(s model.Scout, c model.Country, rng random.Rand) model.PlayerConstraints {
	pc := model.PlayerConstraints{
		MinAge:      17,
		MaxAge:      27,
		MinRating:   min(90, 50+s.Level*3),
		MaxRating:   min(95, 65+s.Level*5),
		Nationality: c.ID,
	}
	if len(s.Specialties) > 0 {
		pc.Position = s.Specialties[rng.IntN(len(s.Specialties))]
	}
	if s.Abilities.Youth >= 70 {
		pc.MaxAge = 21
		pc.PotentialBonus = 5
	}
	return pc
}
