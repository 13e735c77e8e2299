// Package scouting runs scouts, their missions and the random opportunities
// that surface while they travel.
package scouting

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/ledger"
	"AgencyEngine/internal/model"
	"AgencyEngine/internal/random"
)

const module = "scouting"

// Treasury is the slice of the finance ledger scouting spends from.
type Treasury interface {
	Balance() int64
	Spend(amount int64, category, description string) (model.Transaction, error)
	Credit(amount int64, category, description string) (model.Transaction, error)
}

// PlayerGenerator materialises discovered players. Scouting never builds
// player attributes itself.
type PlayerGenerator interface {
	GeneratePlayer(c model.PlayerConstraints) (model.Player, error)
}

// Roster receives discovered players.
type Roster interface {
	Add(p model.Player)
}

// Clock supplies the simulated date.
type Clock interface {
	Today() time.Time
}

// Config tunes costs, quotas and event odds.
type Config struct {
	// OfficeLevel seeds a fresh state; a restored state keeps its own.
	OfficeLevel           int
	ScoutsPerOfficeLevel  int
	EventCooldownDays     int
	BaseEventChance       float64
	MaxEventChance        float64
	PreferredCountryBonus float64
	Countries             []model.Country

	// Salary prices a scout of the given level per month.
	Salary func(level int) int64
}

// DefaultConfig holds the shipped tuning values.
func DefaultConfig() Config {
	return Config{
		OfficeLevel:           1,
		ScoutsPerOfficeLevel:  2,
		EventCooldownDays:     7,
		BaseEventChance:       0.15,
		MaxEventChance:        0.4,
		PreferredCountryBonus: 1.2,
		Salary:                func(level int) int64 { return ledger.MonthlySalary(ledger.DefaultConfig, level) },
	}
}

// Engine is the scouting service over a ScoutingState slice.
type Engine struct {
	mu        sync.Mutex
	state     *model.ScoutingState
	cfg       Config
	countries map[string]model.Country
	treasury  Treasury
	gen       PlayerGenerator
	roster    Roster
	rng       random.Rand
	ids       *ids.Sequence
	clock     Clock
	pub       events.Publisher
	log       zerolog.Logger
}

// Deps groups the collaborators an Engine needs.
type Deps struct {
	Treasury  Treasury
	Generator PlayerGenerator
	Roster    Roster
	Rand      random.Rand
	IDs       *ids.Sequence
	Clock     Clock
	Publisher events.Publisher
	Log       zerolog.Logger
}

// New wraps state.
func New(state *model.ScoutingState, cfg Config, d Deps) *Engine {
	if state.LastEventRolls == nil {
		state.LastEventRolls = map[string]time.Time{}
	}
	if state.OfficeLevel < 1 {
		state.OfficeLevel = max(1, cfg.OfficeLevel)
	}
	if d.Publisher == nil {
		d.Publisher = events.Nop{}
	}
	if cfg.Salary == nil {
		cfg.Salary = DefaultConfig().Salary
	}
	countries := make(map[string]model.Country, len(cfg.Countries))
	for _, c := range cfg.Countries {
		countries[c.ID] = c
	}
	return &Engine{
		state:     state,
		cfg:       cfg,
		countries: countries,
		treasury:  d.Treasury,
		gen:       d.Generator,
		roster:    d.Roster,
		rng:       d.Rand,
		ids:       d.IDs,
		clock:     d.Clock,
		pub:       d.Publisher,
		log:       d.Log.With().Str("service", module).Logger(),
	}
}

// ScoutCap is the number of scouts the current office level allows.
func (e *Engine) ScoutCap() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scoutCap()
}

func (e *Engine) scoutCap() int {
	return e.state.OfficeLevel * max(1, e.cfg.ScoutsPerOfficeLevel)
}

// SetOfficeLevel changes the quota; existing scouts are kept even above it.
func (e *Engine) SetOfficeLevel(level int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.OfficeLevel = max(1, level)
}

// Hire adds a scout. Abilities must lie in [0,100] and level be at least 1.
func (e *Engine) Hire(s model.Scout) (model.Scout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.state.Scouts) >= e.scoutCap() {
		return model.Scout{}, fmt.Errorf("hire %q (cap %d): %w", s.Name, e.scoutCap(), model.ErrQuotaExceeded)
	}
	if err := validateAbilities(s.Abilities); err != nil {
		return model.Scout{}, err
	}
	if s.Level < 1 {
		return model.Scout{}, fmt.Errorf("scout level must be >= 1, got %d", s.Level)
	}
	if s.ID == "" {
		s.ID = e.ids.Next("scout")
	}
	if e.scoutIndex(s.ID) >= 0 {
		return model.Scout{}, fmt.Errorf("scout %q already hired", s.ID)
	}
	s.Salary = e.cfg.Salary(s.Level)
	s.CurrentMission = ""
	s.HiredAt = e.clock.Today()
	e.state.Scouts = append(e.state.Scouts, s)

	e.log.Info().Str("scout_id", s.ID).Int("level", s.Level).Msg("Scout hired")
	e.pub.Publish(s.HiredAt, module, &events.ScoutChangedData{Type: events.ScoutHired, ScoutID: s.ID, Name: s.Name})
	return s, nil
}

// Dismiss removes an idle scout together with any events still waiting on
// them. Dropped events are published as ignored.
func (e *Engine) Dismiss(scoutID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.scoutIndex(scoutID)
	if i < 0 {
		return model.NotFoundf("scout", scoutID)
	}
	s := e.state.Scouts[i]
	if s.Busy() {
		return fmt.Errorf("dismiss %s: %w", scoutID, model.ErrScoutBusy)
	}
	today := e.clock.Today()
	e.state.Scouts = slices.Delete(e.state.Scouts, i, i+1)

	var dropped []string
	e.state.PendingEvents = slices.DeleteFunc(e.state.PendingEvents, func(ev model.ScoutingEvent) bool {
		if ev.ScoutID != s.ID {
			return false
		}
		dropped = append(dropped, ev.ID)
		return true
	})
	for key := range e.state.LastEventRolls {
		if strings.HasPrefix(key, s.ID+"|") {
			delete(e.state.LastEventRolls, key)
		}
	}

	e.pub.Publish(today, module, &events.ScoutChangedData{Type: events.ScoutDismissed, ScoutID: s.ID, Name: s.Name})
	for _, id := range dropped {
		e.pub.Publish(today, module, &events.ScoutingEventResolvedData{EventID: id, Ignored: true})
	}
	if len(dropped) > 0 {
		e.log.Info().Str("scout_id", s.ID).Int("events", len(dropped)).Msg("Dropped pending events of dismissed scout")
	}
	return nil
}

// Scouts returns copies of all hired scouts.
func (e *Engine) Scouts() []model.Scout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.state.Scouts)
}

// Scout returns one scout.
func (e *Engine) Scout(id string) (model.Scout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.scoutIndex(id)
	if i < 0 {
		return model.Scout{}, model.NotFoundf("scout", id)
	}
	return e.state.Scouts[i], nil
}

// Country returns a configured destination.
func (e *Engine) Country(id string) (model.Country, error) {
	c, ok := e.countries[id]
	if !ok {
		return model.Country{}, model.NotFoundf("country", id)
	}
	return c, nil
}

// Reports returns copies of all filed reports.
func (e *Engine) Reports() []model.ScoutingReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.state.Reports)
}

func (e *Engine) scoutIndex(id string) int {
	return slices.IndexFunc(e.state.Scouts, func(s model.Scout) bool { return s.ID == id })
}

func validateAbilities(a model.Abilities) error {
	for name, v := range map[string]int{"evaluation": a.Evaluation, "negotiation": a.Negotiation, "youth": a.Youth} {
		if v < 0 || v > 100 {
			return fmt.Errorf("ability %s out of range: %d", name, v)
		}
	}
	return nil
}
