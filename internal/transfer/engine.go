// Package transfer runs the offer negotiation state machine:
// PENDING → NEGOTIATING → ACCEPTED/REJECTED → COMPLETED, with EXPIRED reached
// when an active offer outlives its deadline.
package transfer

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/market"
	"AgencyEngine/internal/model"
)

const module = "transfers"

// Ledger categories used by the engine.
const (
	CategoryReserve  = "transfer_reserve"
	CategoryRelease  = "transfer_release"
	CategoryAgentFee = "agent_fees"
)

// Treasury is the slice of the finance ledger used for reservation and settlement.
type Treasury interface {
	Balance() int64
	Spend(amount int64, category, description string) (model.Transaction, error)
	Credit(amount int64, category, description string) (model.Transaction, error)
}

// Roster looks players up and moves them between teams.
type Roster interface {
	Get(id string) (model.Player, error)
	AssignTeam(id, teamID string) error
}

// Clock supplies the simulated date and transfer window state.
type Clock interface {
	Today() time.Time
	TransferWindowOpen() bool
}

// Config tunes offer validation and settlement.
type Config struct {
	OfferExpiryDays    int
	AgentFeePercentage float64
	MinOfferRatio      float64
	PotentialPremium   float64
	RequireOpenWindow  bool
}

// DefaultConfig holds the shipped tuning values.
func DefaultConfig() Config {
	return Config{
		OfferExpiryDays:    7,
		AgentFeePercentage: 10,
		MinOfferRatio:      0.8,
		PotentialPremium:   0.15,
	}
}

// Engine owns a TransferBook.
type Engine struct {
	mu       sync.Mutex
	book     *model.TransferBook
	cfg      Config
	treasury Treasury
	roster   Roster
	clock    Clock
	ids      *ids.Sequence
	pub      events.Publisher
	log      zerolog.Logger
}

// New wraps book. pub may be nil.
func New(book *model.TransferBook, cfg Config, treasury Treasury, roster Roster, clock Clock, seq *ids.Sequence, pub events.Publisher, log zerolog.Logger) *Engine {
	if pub == nil {
		pub = events.Nop{}
	}
	if cfg.OfferExpiryDays <= 0 {
		cfg.OfferExpiryDays = DefaultConfig().OfferExpiryDays
	}
	return &Engine{
		book:     book,
		cfg:      cfg,
		treasury: treasury,
		roster:   roster,
		clock:    clock,
		ids:      seq,
		pub:      pub,
		log:      log.With().Str("service", module).Logger(),
	}
}

// Name identifies the engine as a history source for the trend collector.
func (e *Engine) Name() string { return module }

// CreateOffer opens a negotiation for playerID on behalf of toTeamID and
// reserves amount from the treasury. The offer is refused, with nothing
// reserved, when the treasury cannot cover it, when it falls below the
// selling club's minimum, or when an active offer already exists for the
// same player and team.
func (e *Engine) CreateOffer(playerID, toTeamID string, amount int64) (model.TransferOffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return model.TransferOffer{}, fmt.Errorf("offer %d: %w", amount, model.ErrInvalidAmount)
	}
	p, err := e.roster.Get(playerID)
	if err != nil {
		return model.TransferOffer{}, err
	}
	if p.TeamID == toTeamID {
		return model.TransferOffer{}, fmt.Errorf("player %s already plays for %s", playerID, toTeamID)
	}
	if balance := e.treasury.Balance(); amount > balance {
		return model.TransferOffer{}, &model.InsufficientFundsError{Needed: amount, Available: balance}
	}

	today := e.clock.Today()
	if floor := market.MinimumOffer(p, today, e.cfg.MinOfferRatio, e.cfg.PotentialPremium); amount < floor {
		return model.TransferOffer{}, fmt.Errorf("offer %d for %s below %d: %w", amount, playerID, floor, model.ErrOfferTooLow)
	}
	if slices.ContainsFunc(e.book.Offers, func(o model.TransferOffer) bool {
		return o.PlayerID == playerID && o.ToTeamID == toTeamID && o.Status.Active()
	}) {
		return model.TransferOffer{}, fmt.Errorf("player %s to %s: %w", playerID, toTeamID, model.ErrDuplicateOffer)
	}

	if _, err := e.treasury.Spend(amount, CategoryReserve, fmt.Sprintf("reserve offer for %s", p.Name)); err != nil {
		return model.TransferOffer{}, err
	}

	o := model.TransferOffer{
		ID:                 e.ids.Next("offer"),
		PlayerID:           playerID,
		FromTeamID:         p.TeamID,
		ToTeamID:           toTeamID,
		InitialOffer:       amount,
		CurrentOffer:       amount,
		Reserved:           amount,
		Status:             model.OfferPending,
		NegotiationStage:   model.StageInitial,
		AgentFeePercentage: e.cfg.AgentFeePercentage,
		CreatedAt:          today,
		ExpiresAt:          today.AddDate(0, 0, e.cfg.OfferExpiryDays),
		Messages: []model.NegotiationMessage{
			{Sender: model.PartyAgent, Text: fmt.Sprintf("Opening offer of %d for %s", amount, p.Name), Date: today},
		},
	}
	e.book.Offers = append(e.book.Offers, o)

	e.log.Info().Str("offer_id", o.ID).Str("player_id", playerID).Int64("amount", amount).Msg("Offer created")
	e.publishStatus(o, "")
	return o, nil
}

// SubmitCounterOffer puts a new amount on the table and moves the
// reservation with it: a raise is refused when the treasury cannot cover
// the difference, a cut releases it. An amount equal to the current offer
// changes nothing.
func (e *Engine) SubmitCounterOffer(offerID string, amount int64, sender model.Party) (model.TransferOffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return model.TransferOffer{}, fmt.Errorf("counter-offer %d: %w", amount, model.ErrInvalidAmount)
	}
	if sender != model.PartyAgent && sender != model.PartyClub {
		return model.TransferOffer{}, fmt.Errorf("unknown party %q", sender)
	}
	i, err := e.activeIndex(offerID, "counter")
	if err != nil {
		return model.TransferOffer{}, err
	}
	o := &e.book.Offers[i]
	if amount == o.CurrentOffer {
		return *o, nil
	}

	// The reservation always equals the amount on the table.
	switch delta := amount - o.Reserved; {
	case delta > 0:
		if balance := e.treasury.Balance(); delta > balance {
			return model.TransferOffer{}, &model.InsufficientFundsError{Needed: delta, Available: balance}
		}
		if _, err := e.treasury.Spend(delta, CategoryReserve, fmt.Sprintf("raise reservation for offer %s", o.ID)); err != nil {
			return model.TransferOffer{}, err
		}
	case delta < 0:
		if _, err := e.treasury.Credit(-delta, CategoryRelease, fmt.Sprintf("lower reservation for offer %s", o.ID)); err != nil {
			return model.TransferOffer{}, err
		}
	}
	o.Reserved = amount

	today := e.clock.Today()
	from := o.Status
	o.CounterOffers = append(o.CounterOffers, model.CounterOffer{Amount: amount, Sender: sender, Date: today})
	o.Messages = append(o.Messages, model.NegotiationMessage{
		Sender: sender,
		Text:   fmt.Sprintf("Counter-offer of %d (was %d)", amount, o.CurrentOffer),
		Date:   today,
	})
	o.CurrentOffer = amount
	o.NegotiationStage = model.StageCounterOffer
	o.Status = model.OfferNegotiating

	e.pub.Publish(today, module, &events.CounterOfferSubmittedData{OfferID: o.ID, Amount: amount, Sender: sender})
	if from != o.Status {
		e.publishStatus(*o, from)
	}
	return *o, nil
}

// AddCondition attaches a performance bonus. Conditions accumulate and do
// not move the offer between states.
func (e *Engine) AddCondition(offerID string, c model.TransferCondition) (model.TransferOffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c.Type == "" || c.Threshold < 0 || c.Bonus < 0 {
		return model.TransferOffer{}, fmt.Errorf("invalid condition %+v", c)
	}
	i, err := e.activeIndex(offerID, "add condition to")
	if err != nil {
		return model.TransferOffer{}, err
	}
	o := &e.book.Offers[i]
	o.Conditions = append(o.Conditions, c)
	return *o, nil
}

// Offer looks an offer up among active and archived ones.
func (e *Engine) Offer(id string) (model.TransferOffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.offerIndex(id); i >= 0 {
		return e.book.Offers[i], nil
	}
	if i := e.archiveIndex(id); i >= 0 {
		return e.book.Archive[i], nil
	}
	return model.TransferOffer{}, model.NotFoundf("offer", id)
}

// Offers returns the active offers.
func (e *Engine) Offers() []model.TransferOffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.book.Offers)
}

// Archive returns offers that reached a terminal state.
func (e *Engine) Archive() []model.TransferOffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.book.Archive)
}

// CompletedTransfers returns the settled deal history.
func (e *Engine) CompletedTransfers() []model.CompletedTransfer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.book.Completed)
}

// Reputation is the agent's accumulated standing.
func (e *Engine) Reputation() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Reputation
}

// SetTrends replaces the market trends used for guidance.
func (e *Engine) SetTrends(trends []model.MarketTrend) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.book.Trends = slices.Clone(trends)
}

// Trends returns the current market trends.
func (e *Engine) Trends() []model.MarketTrend {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.book.Trends)
}

// activeIndex finds a negotiable offer. Archived offers yield an
// InvalidTransitionError; an active offer past its deadline is expired on
// the spot and does the same.
func (e *Engine) activeIndex(id, action string) (int, error) {
	i, err := e.lookupActive(id, action)
	if err != nil {
		if i >= 0 {
			e.expire(i, e.clock.Today())
		}
		return -1, err
	}
	return i, nil
}

// lookupActive is activeIndex without side effects. An overdue offer is
// reported as expired, with its index, but left in place.
func (e *Engine) lookupActive(id, action string) (int, error) {
	if i := e.offerIndex(id); i >= 0 {
		if e.clock.Today().After(e.book.Offers[i].ExpiresAt) {
			return i, &model.InvalidTransitionError{OfferID: id, From: model.OfferExpired, Action: action}
		}
		return i, nil
	}
	if i := e.archiveIndex(id); i >= 0 {
		return -1, &model.InvalidTransitionError{OfferID: id, From: e.book.Archive[i].Status, Action: action}
	}
	return -1, model.NotFoundf("offer", id)
}

func (e *Engine) offerIndex(id string) int {
	return slices.IndexFunc(e.book.Offers, func(o model.TransferOffer) bool { return o.ID == id })
}

func (e *Engine) archiveIndex(id string) int {
	return slices.IndexFunc(e.book.Archive, func(o model.TransferOffer) bool { return o.ID == id })
}

func (e *Engine) publishStatus(o model.TransferOffer, from model.OfferStatus) {
	e.pub.Publish(e.clock.Today(), module, &events.OfferStatusChangedData{
		OfferID:  o.ID,
		PlayerID: o.PlayerID,
		From:     from,
		To:       o.Status,
		Amount:   o.CurrentOffer,
	})
}
