package transfer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/ledger"
	"AgencyEngine/internal/model"
	"AgencyEngine/internal/players"
)

type fakeClock struct {
	now    time.Time
	window bool
}

func (c *fakeClock) Today() time.Time         { return c.now }
func (c *fakeClock) TransferWindowOpen() bool { return c.window }

var day0 = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

const buyer = "club_london"

type fixture struct {
	engine *Engine
	ledger *ledger.Ledger
	roster *players.Registry
	book   *model.TransferBook
	clock  *fakeClock
	events *events.Collector
}

// striker is worth 500000 with 18 months left and potential 70, so the
// minimum opening bid is 500000 × 0.8 × 1.0 × 1.105 = 442000.
func striker() model.Player {
	return model.Player{
		ID:          "p_striker",
		Name:        "Theo Marsh",
		Age:         24,
		Position:    model.Forward,
		TeamID:      "club_porto",
		Rating:      72,
		Potential:   70,
		Value:       500_000,
		ContractEnd: day0.AddDate(0, 18, 0),
	}
}

func newFixture(t *testing.T, balance int64, cfg Config) *fixture {
	t.Helper()
	clock := &fakeClock{now: day0, window: true}
	seq := ids.NewSequence(1)
	bus := events.NewBus(zerolog.Nop())
	col := &events.Collector{}
	bus.Subscribe(col.Handle)

	led := ledger.New(&model.LedgerState{Treasury: model.Treasury{Balance: balance}}, seq, clock, ledger.DefaultConfig, bus, zerolog.Nop())
	roster := players.NewRegistry([]model.Player{striker()})
	book := &model.TransferBook{}
	e := New(book, cfg, led, roster, clock, seq, bus, zerolog.Nop())
	return &fixture{engine: e, ledger: led, roster: roster, book: book, clock: clock, events: col}
}

func TestCreateOffer_Scenario(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())

	_, err := f.engine.CreateOffer("p_striker", buyer, 420_000)
	require.ErrorIs(t, err, model.ErrOfferTooLow)
	assert.Equal(t, int64(1_000_000), f.ledger.Balance())
	assert.Empty(t, f.engine.Offers())

	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
	assert.Equal(t, int64(540_000), f.ledger.Balance())
	assert.Equal(t, model.OfferPending, o.Status)
	assert.Equal(t, model.StageInitial, o.NegotiationStage)
	assert.Equal(t, "club_porto", o.FromTeamID)
	assert.Equal(t, int64(460_000), o.Reserved)
	assert.Equal(t, day0.AddDate(0, 0, 7), o.ExpiresAt)
	assert.Len(t, f.engine.Offers(), 1)

	changes := f.events.OfType(events.OfferStatusChanged)
	require.Len(t, changes, 1)
	assert.Equal(t, model.OfferPending, changes[0].Data.(*events.OfferStatusChangedData).To)
}

func TestCreateOffer_Refusals(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())

	_, err := f.engine.CreateOffer("p_striker", buyer, 1_500_000)
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)

	_, err = f.engine.CreateOffer("p_ghost", buyer, 460_000)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.engine.CreateOffer("p_striker", buyer, 0)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = f.engine.CreateOffer("p_striker", "club_porto", 460_000)
	assert.Error(t, err)

	_, err = f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
	_, err = f.engine.CreateOffer("p_striker", buyer, 470_000)
	assert.ErrorIs(t, err, model.ErrDuplicateOffer)
	assert.Equal(t, int64(540_000), f.ledger.Balance())

	_, err = f.engine.CreateOffer("p_striker", "club_milan", 450_000)
	require.NoError(t, err)
	assert.Equal(t, int64(90_000), f.ledger.Balance())
}

func TestSubmitCounterOffer(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	same, err := f.engine.SubmitCounterOffer(o.ID, 460_000, model.PartyClub)
	require.NoError(t, err)
	assert.Equal(t, model.OfferPending, same.Status)
	assert.Empty(t, same.CounterOffers)

	got, err := f.engine.SubmitCounterOffer(o.ID, 480_000, model.PartyClub)
	require.NoError(t, err)
	assert.Equal(t, model.OfferNegotiating, got.Status)
	assert.Equal(t, model.StageCounterOffer, got.NegotiationStage)
	assert.Equal(t, int64(480_000), got.CurrentOffer)
	assert.Equal(t, int64(460_000), got.InitialOffer)
	require.Len(t, got.CounterOffers, 1)
	assert.Equal(t, model.PartyClub, got.CounterOffers[0].Sender)
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, int64(480_000), got.Reserved)
	assert.Equal(t, int64(520_000), f.ledger.Balance())

	_, err = f.engine.SubmitCounterOffer(o.ID, 470_000, "REFEREE")
	assert.Error(t, err)
	_, err = f.engine.SubmitCounterOffer("missing", 470_000, model.PartyAgent)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Len(t, f.events.OfType(events.CounterOfferSubmitted), 1)
	assert.Len(t, f.events.OfType(events.OfferStatusChanged), 2)
}

func TestAcceptOffer_DeductsOnlyAgentFee(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
	_, err = f.engine.SubmitCounterOffer(o.ID, 480_000, model.PartyClub)
	require.NoError(t, err)
	_, err = f.engine.AddCondition(o.ID, model.TransferCondition{Type: "goals", Threshold: 15, Bonus: 20_000})
	require.NoError(t, err)

	before := f.ledger.Balance()
	ct, err := f.engine.AcceptOffer(o.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(48_000), ct.AgentFee)
	assert.Equal(t, int64(480_000), ct.Fee)
	assert.Equal(t, before-48_000, f.ledger.Balance())
	assert.Equal(t, int64(1_000_000-480_000-48_000), f.ledger.Balance())
	assert.Equal(t, model.Forward, ct.Position)
	assert.Len(t, ct.Conditions, 1)

	p, err := f.roster.Get("p_striker")
	require.NoError(t, err)
	assert.Equal(t, buyer, p.TeamID)

	assert.Empty(t, f.engine.Offers())
	archived, err := f.engine.Offer(o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferCompleted, archived.Status)
	assert.Equal(t, model.StageFinal, archived.NegotiationStage)
	assert.Len(t, f.engine.CompletedTransfers(), 1)
	assert.InDelta(t, 1.48, f.engine.Reputation(), 1e-9)
	assert.Len(t, f.events.OfType(events.TransferCompleted), 1)
}

func TestSubmitCounterOffer_RaiseBeyondTreasuryRefused(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
	require.Equal(t, int64(540_000), f.ledger.Balance())

	_, err = f.engine.SubmitCounterOffer(o.ID, 5_000_000, model.PartyClub)
	var ife *model.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, int64(4_540_000), ife.Needed)
	assert.Equal(t, int64(540_000), ife.Available)

	same, err := f.engine.Offer(o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(460_000), same.CurrentOffer)
	assert.Equal(t, int64(460_000), same.Reserved)
	assert.Equal(t, model.OfferPending, same.Status)
	assert.Empty(t, same.CounterOffers)
	assert.Equal(t, int64(540_000), f.ledger.Balance())

	ct, err := f.engine.AcceptOffer(o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(460_000), ct.Fee)
	assert.Equal(t, int64(1_000_000-460_000-46_000), f.ledger.Balance())
}

func TestSubmitCounterOffer_CutReleasesDifference(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	got, err := f.engine.SubmitCounterOffer(o.ID, 1_000, model.PartyAgent)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), got.Reserved)
	assert.Equal(t, int64(999_000), f.ledger.Balance())

	ct, err := f.engine.AcceptOffer(o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), ct.Fee)
	assert.Equal(t, int64(100), ct.AgentFee)
	assert.Equal(t, int64(998_900), f.ledger.Balance())
}

func TestRejectOffer_AfterRaiseReleasesAll(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
	_, err = f.engine.SubmitCounterOffer(o.ID, 600_000, model.PartyClub)
	require.NoError(t, err)
	require.Equal(t, int64(400_000), f.ledger.Balance())

	require.NoError(t, f.engine.RejectOffer(o.ID))
	assert.Equal(t, int64(1_000_000), f.ledger.Balance())
}

func TestAcceptOffer_TerminalOfferIsInvalidTransition(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
	_, err = f.engine.AcceptOffer(o.ID)
	require.NoError(t, err)

	_, err = f.engine.AcceptOffer(o.ID)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	var ite *model.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.OfferCompleted, ite.From)

	assert.ErrorIs(t, f.engine.RejectOffer(o.ID), model.ErrInvalidTransition)
	_, err = f.engine.AcceptOffer("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAcceptOffer_FeeShortfallChangesNothing(t *testing.T) {
	f := newFixture(t, 500_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
	require.Equal(t, int64(40_000), f.ledger.Balance())

	_, err = f.engine.AcceptOffer(o.ID)
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Equal(t, int64(40_000), f.ledger.Balance())
	assert.Len(t, f.engine.Offers(), 1)

	p, _ := f.roster.Get("p_striker")
	assert.Equal(t, "club_porto", p.TeamID)
}

func TestAcceptOffer_WindowClosed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireOpenWindow = true
	f := newFixture(t, 1_000_000, cfg)
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	f.clock.window = false
	_, err = f.engine.AcceptOffer(o.ID)
	require.ErrorIs(t, err, model.ErrTransferWindowClosed)
	assert.Len(t, f.engine.Offers(), 1)

	f.clock.window = true
	_, err = f.engine.AcceptOffer(o.ID)
	require.NoError(t, err)
}

func TestRejectOffer_ReleasesReservation(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	require.NoError(t, f.engine.RejectOffer(o.ID))
	assert.Equal(t, int64(1_000_000), f.ledger.Balance())
	assert.Empty(t, f.engine.Offers())

	archived, err := f.engine.Offer(o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferRejected, archived.Status)

	// A fresh offer for the same pair is allowed again.
	_, err = f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)
}

func TestExpireOffers(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	assert.Empty(t, f.engine.ExpireOffers(day0.AddDate(0, 0, 7)))
	assert.Len(t, f.engine.Offers(), 1)

	expired := f.engine.ExpireOffers(day0.AddDate(0, 0, 8))
	require.Len(t, expired, 1)
	assert.Equal(t, o.ID, expired[0].ID)
	assert.Equal(t, model.OfferExpired, expired[0].Status)
	assert.Equal(t, int64(1_000_000), f.ledger.Balance())
	assert.Empty(t, f.engine.Offers())
}

func TestAcceptOffer_PastDeadlineExpires(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	f.clock.now = day0.AddDate(0, 0, 10)
	_, err = f.engine.AcceptOffer(o.ID)
	var ite *model.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.OfferExpired, ite.From)
	assert.Equal(t, int64(1_000_000), f.ledger.Balance())

	p, _ := f.roster.Get("p_striker")
	assert.Equal(t, "club_porto", p.TeamID)
}

func TestAddCondition(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	got, err := f.engine.AddCondition(o.ID, model.TransferCondition{Type: "appearances", Threshold: 20, Bonus: 10_000})
	require.NoError(t, err)
	got, err = f.engine.AddCondition(o.ID, model.TransferCondition{Type: "goals", Threshold: 10, Bonus: 15_000})
	require.NoError(t, err)
	assert.Len(t, got.Conditions, 2)
	assert.Equal(t, model.OfferPending, got.Status)

	_, err = f.engine.AddCondition(o.ID, model.TransferCondition{Type: "", Bonus: 1})
	assert.Error(t, err)
}

func TestGuidance(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	g, err := f.engine.Guidance(o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(442_000), g.Minimum)
	assert.Equal(t, int64(500_000), g.Recommended)
	assert.Equal(t, int64(450_000), g.Low)
	assert.Equal(t, int64(550_000), g.High)
	assert.Equal(t, model.TrendStable, g.Direction)
	// 0.6 × 0.92 + 0.2 × 1 + 0.2 × 0.5
	assert.InDelta(t, 85.2, g.Probability.Percent, 1e-6)

	f.engine.SetTrends([]model.MarketTrend{{Position: model.Forward, PriceChange: 12}})
	g, err = f.engine.Guidance(o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TrendUp, g.Direction)
	assert.Greater(t, g.Recommended, int64(500_000))
}

func TestGuidance_OverdueOfferIsLeftForTheSweep(t *testing.T) {
	f := newFixture(t, 1_000_000, DefaultConfig())
	o, err := f.engine.CreateOffer("p_striker", buyer, 460_000)
	require.NoError(t, err)

	f.clock.now = day0.AddDate(0, 0, 10)
	_, err = f.engine.Guidance(o.ID)
	var ite *model.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.OfferExpired, ite.From)

	assert.Equal(t, int64(540_000), f.ledger.Balance())
	require.Len(t, f.engine.Offers(), 1)
	assert.Equal(t, model.OfferPending, f.engine.Offers()[0].Status)
	assert.Empty(t, f.engine.Archive())

	require.Len(t, f.engine.ExpireOffers(f.clock.now), 1)
	assert.Equal(t, int64(1_000_000), f.ledger.Balance())
}
