// Package game assembles the engine services over one shared state and
// turns that state into snapshots and back.
package game

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"AgencyEngine/internal/collector"
	"AgencyEngine/internal/config"
	"AgencyEngine/internal/events"
	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/ledger"
	"AgencyEngine/internal/model"
	"AgencyEngine/internal/players"
	"AgencyEngine/internal/random"
	"AgencyEngine/internal/scheduler"
	"AgencyEngine/internal/scouting"
	"AgencyEngine/internal/state"
	"AgencyEngine/internal/transfer"
)

// Game is a running economy. Commands issued while the real-time driver is
// running should go through Scheduler.Do so they never interleave with a tick.
type Game struct {
	Bus       *events.Bus
	Clock     *scheduler.Clock
	Ledger    *ledger.Ledger
	Transfers *transfer.Engine
	Scouting  *scouting.Engine
	Players   *players.Registry
	Generator *players.Generator
	Collector *collector.Collector
	Scheduler *scheduler.Scheduler

	snap *state.Snapshot
	rng  *random.Source
	log  zerolog.Logger
}

// New starts a fresh game from cfg: treasury funded, roster generated and
// configured recurring obligations registered. bus may be nil.
func New(cfg *config.Config, bus *events.Bus, log zerolog.Logger) (*Game, error) {
	start, err := cfg.Start()
	if err != nil {
		return nil, err
	}
	snap := &state.Snapshot{
		Version: state.Version,
		Clock:   model.GameClock{CurrentDate: start, GameSpeed: cfg.Game.DaysPerTick},
		Ledger:  model.LedgerState{Treasury: model.Treasury{Balance: cfg.Game.StartingBalance, LastUpdate: start}},
		IDs:     *ids.NewSequence(cfg.Game.Seed),
	}
	g := assemble(cfg, snap, random.New(cfg.Game.Seed), bus, log)

	for range cfg.Game.InitialPlayers {
		p, err := g.Generator.GeneratePlayer(model.PlayerConstraints{})
		if err != nil {
			return nil, fmt.Errorf("seed roster: %w", err)
		}
		g.Players.Add(p)
	}
	for _, r := range cfg.Finance.Recurring {
		_, err := g.Ledger.AddRecurring(model.RecurringObligation{
			Name:        r.Name,
			Type:        r.Type,
			Category:    r.Category,
			Amount:      r.Amount,
			Frequency:   r.Frequency,
			IsAutomatic: true,
		})
		if err != nil {
			return nil, fmt.Errorf("recurring %q: %w", r.Name, err)
		}
	}

	g.log.Info().
		Time("start", start).
		Int64("balance", cfg.Game.StartingBalance).
		Int("players", cfg.Game.InitialPlayers).
		Msg("New game")
	return g, nil
}

// Restore resumes a game from snap, which the game takes ownership of.
func Restore(cfg *config.Config, snap *state.Snapshot, bus *events.Bus, log zerolog.Logger) (*Game, error) {
	rng := random.New(0)
	if err := rng.Restore(snap.RNG); err != nil {
		return nil, fmt.Errorf("restore rng: %w", err)
	}
	g := assemble(cfg, snap, rng, bus, log)
	g.log.Info().Time("date", snap.Clock.CurrentDate).Msg("Game restored")
	return g, nil
}

// Archive holds packed snapshots from earlier saves.
type Archive interface {
	LatestSnapshot() (time.Time, []byte, bool, error)
}

// Load restores the game saved at cfg.StateFile. Without a state file it
// falls back to the newest snapshot in archive, which may be nil, and only
// then starts a new game.
func Load(cfg *config.Config, archive Archive, bus *events.Bus, log zerolog.Logger) (*Game, error) {
	snap, err := state.Load(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if snap == nil && archive != nil {
		date, blob, ok, err := archive.LatestSnapshot()
		if err != nil {
			return nil, fmt.Errorf("load archived snapshot: %w", err)
		}
		if ok {
			if snap, err = state.Decode(blob); err != nil {
				return nil, fmt.Errorf("decode archived snapshot: %w", err)
			}
			log.Warn().Str("path", cfg.StateFile).Time("date", date).Msg("State file missing, resuming from archived snapshot")
		}
	}
	if snap == nil {
		return New(cfg, bus, log)
	}
	return Restore(cfg, snap, bus, log)
}

func assemble(cfg *config.Config, snap *state.Snapshot, rng *random.Source, bus *events.Bus, log zerolog.Logger) *Game {
	if bus == nil {
		bus = events.NewBus(log)
	}
	seq := &snap.IDs
	clock := scheduler.NewClock(&snap.Clock, cfg.WindowMonths())

	ledCfg := ledger.Config{BaseSalary: cfg.Finance.BaseSalary, LevelMultiplier: cfg.Finance.LevelMultiplier}
	led := ledger.New(&snap.Ledger, seq, clock, ledCfg, bus, log)

	roster := players.NewRegistry(snap.Players)
	gen := players.NewGenerator(rng, seq, clock)

	tr := transfer.New(&snap.Transfers, transfer.Config{
		OfferExpiryDays:    cfg.Transfers.OfferExpiryDays,
		AgentFeePercentage: cfg.Transfers.AgentFeePercentage,
		MinOfferRatio:      cfg.Transfers.MinOfferRatio,
		PotentialPremium:   cfg.Transfers.PotentialPremium,
		RequireOpenWindow:  cfg.Transfers.RequireOpenWindow,
	}, led, roster, clock, seq, bus, log)

	scCfg := scouting.DefaultConfig()
	scCfg.OfficeLevel = cfg.Scouting.OfficeLevel
	scCfg.ScoutsPerOfficeLevel = cfg.Scouting.ScoutsPerOfficeLevel
	scCfg.EventCooldownDays = cfg.Scouting.EventCooldownDays
	scCfg.Countries = cfg.Scouting.Countries
	scCfg.Salary = func(level int) int64 { return ledger.MonthlySalary(ledCfg, level) }
	sc := scouting.New(&snap.Scouting, scCfg, scouting.Deps{
		Treasury:  led,
		Generator: gen,
		Roster:    roster,
		Rand:      rng,
		IDs:       seq,
		Clock:     clock,
		Publisher: bus,
		Log:       log,
	})

	col := collector.NewCollector(tr, collector.DefaultWindow, log)
	sched := scheduler.NewScheduler(clock, led, sc, tr, col, bus, log)

	return &Game{
		Bus:       bus,
		Clock:     clock,
		Ledger:    led,
		Transfers: tr,
		Scouting:  sc,
		Players:   roster,
		Generator: gen,
		Collector: col,
		Scheduler: sched,
		snap:      snap,
		rng:       rng,
		log:       log.With().Str("service", "game").Logger(),
	}
}

// Snapshot returns a deep copy of the whole game state. It must not be
// called from inside Scheduler.Do.
func (g *Game) Snapshot() (*state.Snapshot, error) {
	var (
		out *state.Snapshot
		err error
	)
	g.Scheduler.Do(func() { out, err = g.snapshot() })
	return out, err
}

func (g *Game) snapshot() (*state.Snapshot, error) {
	rng, err := g.rng.State()
	if err != nil {
		return nil, fmt.Errorf("rng state: %w", err)
	}
	g.snap.Players = g.Players.All()
	g.snap.RNG = rng
	return state.Clone(g.snap)
}

// Save writes a snapshot to path as JSON.
func (g *Game) Save(path string) error {
	snap, err := g.Snapshot()
	if err != nil {
		return err
	}
	if err := state.Save(path, snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	g.log.Info().Str("path", path).Time("date", snap.Clock.CurrentDate).Msg("Game saved")
	return nil
}
