// Package scheduler drives simulated time and fans the periodic work out to
// the ledger, the scouting engine and the transfer engine.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/model"
	"AgencyEngine/internal/scouting"
)

const module = "scheduler"

// MonthWeeks is how many week boundaries make a payroll month.
const MonthWeeks = 4

// Ledger is the finance work done on a tick.
type Ledger interface {
	ProcessRecurring(today time.Time) int
	PayMonthlySalaries(scouts []model.Scout) (model.SalaryPayment, error)
}

// Scouting is the mission work done on a tick.
type Scouting interface {
	AdvanceDay(today time.Time) scouting.DayResult
	Scouts() []model.Scout
}

// Transfers is the negotiation work done on a tick.
type Transfers interface {
	ExpireOffers(today time.Time) []model.TransferOffer
	SetTrends(trends []model.MarketTrend)
}

// TrendCollector recomputes market trends.
type TrendCollector interface {
	Collect(now time.Time) []model.MarketTrend
}

// DayReport summarises one simulated day.
type DayReport struct {
	Date             time.Time
	Week             int
	WeekChanged      bool
	RecurringFired   int
	ExpiredOffers    []model.TransferOffer
	Scouting         scouting.DayResult
	SalaryPayment    *model.SalaryPayment
	SalaryError      error
	TrendsRecomputed bool
}

// Scheduler advances the clock and runs everything due on each day.
// Ticks and commands passed to Do never interleave.
type Scheduler struct {
	mu        sync.Mutex
	Cron      *cron.Cron
	Clock     *Clock
	Ledger    Ledger
	Scouting  Scouting
	Transfers Transfers
	Collector TrendCollector
	pub       events.Publisher
	log       zerolog.Logger
}

// NewScheduler wires the services. col may be nil to skip trend updates.
func NewScheduler(clock *Clock, led Ledger, sc Scouting, tr Transfers, col TrendCollector, pub events.Publisher, log zerolog.Logger) *Scheduler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Clock:     clock,
		Ledger:    led,
		Scouting:  sc,
		Transfers: tr,
		Collector: col,
		pub:       pub,
		log:       log.With().Str("service", module).Logger(),
	}
}

// AdvanceDay moves time forward one day and runs the day's work. It never
// fails: downstream errors are logged and reported. While paused it does
// nothing and returns false.
func (s *Scheduler) AdvanceDay() (DayReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceDay()
}

// AdvanceWeek is seven AdvanceDay calls.
func (s *Scheduler) AdvanceWeek() []DayReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []DayReport
	for range 7 {
		r, ok := s.advanceDay()
		if !ok {
			break
		}
		out = append(out, r)
	}
	return out
}

// Tick advances as many days as the game speed asks for. The cron driver
// calls it once per real-time interval.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := max(1, int(s.Clock.Speed()))
	for range days {
		if _, ok := s.advanceDay(); !ok {
			return
		}
	}
}

// Pause freezes time. Commands keep working.
func (s *Scheduler) Pause() {
	s.Clock.setPaused(true)
	s.log.Info().Msg("Clock paused")
}

// Resume unfreezes time.
func (s *Scheduler) Resume() {
	s.Clock.setPaused(false)
	s.log.Info().Msg("Clock resumed")
}

// Do runs fn without any tick interleaving. fn must not call back into
// the scheduler's own advance methods.
func (s *Scheduler) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Start registers Tick on the cron spec and starts the driver.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.Tick); err != nil {
		return fmt.Errorf("register tick %q: %w", spec, err)
	}
	s.Cron.Start()
	s.log.Info().Str("spec", spec).Msg("Scheduler started")
	return nil
}

// Stop halts the driver and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) advanceDay() (DayReport, bool) {
	if s.Clock.Paused() {
		return DayReport{}, false
	}
	today, weekChanged, windowChanged := s.Clock.advance()
	r := DayReport{Date: today, Week: s.Clock.Week(), WeekChanged: weekChanged}

	s.pub.Publish(today, module, &events.ClockTickedData{Date: today, Week: r.Week, WeekChanged: weekChanged})
	if windowChanged {
		open := s.Clock.TransferWindowOpen()
		s.log.Info().Bool("open", open).Msg("Transfer window changed")
		s.pub.Publish(today, module, &events.TransferWindowChangedData{Open: open})
	}

	r.RecurringFired = s.Ledger.ProcessRecurring(today)
	if weekChanged && r.Week%MonthWeeks == 0 {
		p, err := s.Ledger.PayMonthlySalaries(s.Scouting.Scouts())
		if err != nil {
			r.SalaryError = err
			s.log.Warn().Err(err).Int("week", r.Week).Msg("Salary payment deferred")
		} else if p.Total > 0 {
			r.SalaryPayment = &p
			s.pub.Publish(today, module, &events.SalariesPaidData{Payment: p})
		}
	}

	r.Scouting = s.Scouting.AdvanceDay(today)
	r.ExpiredOffers = s.Transfers.ExpireOffers(today)

	if weekChanged && s.Collector != nil {
		trends := s.Collector.Collect(today)
		s.Transfers.SetTrends(trends)
		r.TrendsRecomputed = true
		s.pub.Publish(today, module, &events.MarketTrendsUpdatedData{Trends: trends})
	}

	s.log.Debug().Time("date", today).Int("week", r.Week).Msg("Day advanced")
	return r, true
}
