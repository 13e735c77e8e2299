package scouting

import (
	"fmt"
	"slices"
	"time"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/model"
)

// eventSpec is the catalog entry for one scouting event type.
type eventSpec struct {
	description string
	options     func(a model.Abilities) []model.EventOption
	constraints model.PlayerConstraints
}

func specFor(t model.ScoutingEventType) (eventSpec, error) {
	switch t {
	case model.WonderkidFound:
		return eventSpec{
			description: "Word is spreading about an exceptional teenager at a local academy.",
			options: func(a model.Abilities) []model.EventOption {
				return []model.EventOption{
					{ID: "arrange_trial", Label: "Arrange a private trial", Cost: 10000, SuccessChance: pct(a.Youth)},
					{ID: "watch_from_stands", Label: "Watch from the stands", Cost: 0, SuccessChance: pct(a.Youth) / 2},
				}
			},
			constraints: model.PlayerConstraints{MinAge: 15, MaxAge: 17, MinRating: 55, MaxRating: 70, PotentialBonus: 20},
		}, nil
	case model.HiddenGem:
		return eventSpec{
			description: "An overlooked player in a lower division keeps catching the eye.",
			options: func(a model.Abilities) []model.EventOption {
				return []model.EventOption{
					{ID: "detailed_analysis", Label: "Commission a detailed analysis", Cost: 5000, SuccessChance: pct(a.Evaluation)},
					{ID: "follow_rumour", Label: "Follow up on the rumour", Cost: 0, SuccessChance: pct(a.Evaluation) / 3},
				}
			},
			constraints: model.PlayerConstraints{MinAge: 19, MaxAge: 25, MinRating: 60, MaxRating: 75, PotentialBonus: 10},
		}, nil
	case model.BiddingWar:
		return eventSpec{
			description: "Several agencies are circling the same promising player.",
			options: func(a model.Abilities) []model.EventOption {
				return []model.EventOption{
					{ID: "outbid", Label: "Outbid the competition", Cost: 25000, SuccessChance: pct(a.Negotiation)},
					{ID: "negotiate_quietly", Label: "Negotiate quietly with the family", Cost: 8000, SuccessChance: pct(a.Negotiation) * 2 / 3},
				}
			},
			constraints: model.PlayerConstraints{MinAge: 20, MaxAge: 28, MinRating: 70, MaxRating: 85, PotentialBonus: 5},
		}, nil
	case model.LocalConnection:
		return eventSpec{
			description: "A local coach offers an introduction to one of their players.",
			options: func(model.Abilities) []model.EventOption {
				return []model.EventOption{
					{ID: "meet_coach", Label: "Meet the coach", Cost: 2000, SuccessChance: 0.5},
				}
			},
			constraints: model.PlayerConstraints{MinAge: 18, MaxAge: 26, MinRating: 55, MaxRating: 72, PotentialBonus: 5},
		}, nil
	case model.TournamentAccess:
		return eventSpec{
			description: "Passes are available for a youth tournament this weekend.",
			options: func(a model.Abilities) []model.EventOption {
				return []model.EventOption{
					{ID: "buy_passes", Label: "Buy tournament passes", Cost: 7500, SuccessChance: pct(a.Evaluation+a.Youth) / 2},
				}
			},
			constraints: model.PlayerConstraints{MinAge: 16, MaxAge: 20, MinRating: 50, MaxRating: 68, PotentialBonus: 12},
		}, nil
	default:
		return eventSpec{}, fmt.Errorf("unknown scouting event type %q", t)
	}
}

// Description returns the narrative text for an event type.
func Description(t model.ScoutingEventType) (string, error) {
	s, err := specFor(t)
	if err != nil {
		return "", err
	}
	return s.description, nil
}

// EligibleEvents lists the event types a scout's abilities unlock, in catalog order.
func EligibleEvents(a model.Abilities) []model.ScoutingEventType {
	var out []model.ScoutingEventType
	for _, t := range model.ScoutingEventTypes {
		switch t {
		case model.WonderkidFound:
			if a.Youth < 70 {
				continue
			}
		case model.HiddenGem:
			if a.Evaluation < 70 {
				continue
			}
		case model.BiddingWar:
			if a.Negotiation < 70 {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// EventChance is the probability of an event on one roll.
func (e *Engine) EventChance(s model.Scout, countryID string) float64 {
	chance := min(e.cfg.MaxEventChance, e.cfg.BaseEventChance+float64(s.Abilities.Evaluation)/500)
	if s.Prefers(countryID) {
		chance *= e.cfg.PreferredCountryBonus
	}
	return chance
}

// rollEvent is gated by a cooldown per scout and country, counted from the
// previous roll whether or not it produced an event.
func (e *Engine) rollEvent(s model.Scout, countryID string, today time.Time) (model.ScoutingEvent, bool) {
	key := s.ID + "|" + countryID
	cooldown := time.Duration(e.cfg.EventCooldownDays) * 24 * time.Hour
	if last, ok := e.state.LastEventRolls[key]; ok && today.Sub(last) < cooldown {
		return model.ScoutingEvent{}, false
	}
	e.state.LastEventRolls[key] = today

	if e.rng.Float64() >= e.EventChance(s, countryID) {
		return model.ScoutingEvent{}, false
	}
	eligible := EligibleEvents(s.Abilities)
	t := eligible[e.rng.IntN(len(eligible))]
	spec, err := specFor(t)
	if err != nil {
		e.log.Error().Err(err).Msg("Event roll")
		return model.ScoutingEvent{}, false
	}

	ev := model.ScoutingEvent{
		ID:          e.ids.Next("event"),
		Type:        t,
		CountryID:   countryID,
		ScoutID:     s.ID,
		Description: spec.description,
		Options:     spec.options(s.Abilities),
		CreatedAt:   today,
	}
	e.state.PendingEvents = append(e.state.PendingEvents, ev)

	e.log.Info().Str("scout_id", s.ID).Str("type", string(t)).Msg("Scouting event generated")
	e.pub.Publish(today, module, &events.ScoutingEventGeneratedData{Event: ev})
	return ev, true
}

// PendingEvents returns copies of the events awaiting a decision.
func (e *Engine) PendingEvents() []model.ScoutingEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.state.PendingEvents)
}

// Resolution is the outcome of choosing an event option.
type Resolution struct {
	Event   model.ScoutingEvent
	Option  model.EventOption
	Success bool
	Player  *model.Player
	Report  *model.ScoutingReport
}

// ResolveEvent pays for the chosen option and rolls for its success. A
// successful roll materialises a player and a report. The event is consumed
// either way, unless paying or generating fails.
func (e *Engine) ResolveEvent(eventID, optionID string) (Resolution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ei := e.eventIndex(eventID)
	if ei < 0 {
		return Resolution{}, model.NotFoundf("scouting event", eventID)
	}
	ev := e.state.PendingEvents[ei]
	oi := slices.IndexFunc(ev.Options, func(o model.EventOption) bool { return o.ID == optionID })
	if oi < 0 {
		return Resolution{}, model.NotFoundf("event option", optionID)
	}
	opt := ev.Options[oi]
	si := e.scoutIndex(ev.ScoutID)
	if si < 0 {
		return Resolution{}, model.NotFoundf("scout", ev.ScoutID)
	}
	spec, err := specFor(ev.Type)
	if err != nil {
		return Resolution{}, err
	}

	if opt.Cost > 0 {
		if _, err := e.treasury.Spend(opt.Cost, CategoryEvents, fmt.Sprintf("%s: %s", ev.Type, opt.Label)); err != nil {
			return Resolution{}, fmt.Errorf("resolve %s: %w", eventID, err)
		}
	}

	today := e.clock.Today()
	res := Resolution{Event: ev, Option: opt, Success: e.rng.Float64() <= opt.SuccessChance}
	if res.Success {
		c := spec.constraints
		c.Nationality = ev.CountryID
		p, err := e.gen.GeneratePlayer(c)
		if err != nil {
			if opt.Cost > 0 {
				if _, rerr := e.treasury.Credit(opt.Cost, CategoryEvents, "refund: "+opt.Label); rerr != nil {
					e.log.Error().Err(rerr).Msg("Refund failed")
				}
			}
			return Resolution{}, fmt.Errorf("resolve %s: %w", eventID, err)
		}
		e.roster.Add(p)
		scout := &e.state.Scouts[si]
		report := e.fileReport(scout, p, today)
		scout.Stats.SuccessfulFinds++
		res.Player, res.Report = &p, &report
	}
	e.state.PendingEvents = slices.Delete(e.state.PendingEvents, ei, ei+1)

	data := &events.ScoutingEventResolvedData{EventID: ev.ID, OptionID: opt.ID, Success: res.Success}
	if res.Player != nil {
		data.PlayerID = res.Player.ID
	}
	e.pub.Publish(today, module, data)
	return res, nil
}

// IgnoreEvent discards a pending event at no cost.
func (e *Engine) IgnoreEvent(eventID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ei := e.eventIndex(eventID)
	if ei < 0 {
		return model.NotFoundf("scouting event", eventID)
	}
	e.state.PendingEvents = slices.Delete(e.state.PendingEvents, ei, ei+1)
	e.pub.Publish(e.clock.Today(), module, &events.ScoutingEventResolvedData{EventID: eventID, Ignored: true})
	return nil
}

func (e *Engine) eventIndex(id string) int {
	return slices.IndexFunc(e.state.PendingEvents, func(ev model.ScoutingEvent) bool { return ev.ID == id })
}

func pct(ability int) float64 { return float64(ability) / 100 }
