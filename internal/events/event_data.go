package events

import (
	"time"

	"AgencyEngine/internal/model"
)

// EventType names something the engine publishes for the presentation layer.
type EventType string

const (
	ClockTicked            EventType = "CLOCK_TICKED"
	TransferWindowChanged  EventType = "TRANSFER_WINDOW_CHANGED"
	TransactionRecorded    EventType = "TRANSACTION_RECORDED"
	LedgerWarningRaised    EventType = "LEDGER_WARNING"
	SalariesPaid           EventType = "SALARIES_PAID"
	OfferStatusChanged     EventType = "OFFER_STATUS_CHANGED"
	CounterOfferSubmitted  EventType = "COUNTER_OFFER_SUBMITTED"
	TransferCompleted      EventType = "TRANSFER_COMPLETED"
	ScoutHired             EventType = "SCOUT_HIRED"
	ScoutDismissed         EventType = "SCOUT_DISMISSED"
	MissionStarted         EventType = "MISSION_STARTED"
	MissionCompleted       EventType = "MISSION_COMPLETED"
	MissionCancelled       EventType = "MISSION_CANCELLED"
	ScoutingEventGenerated EventType = "SCOUTING_EVENT_GENERATED"
	ScoutingEventResolved  EventType = "SCOUTING_EVENT_RESOLVED"
	MarketTrendsUpdated    EventType = "MARKET_TRENDS_UPDATED"
)

// EventData is implemented by every payload; the method ties payload to type.
type EventData interface {
	EventType() EventType
}

// ClockTickedData is published once per simulated day.
type ClockTickedData struct {
	Date        time.Time `json:"date"`
	Week        int       `json:"week"`
	WeekChanged bool      `json:"week_changed"`
}

func (d *ClockTickedData) EventType() EventType { return ClockTicked }

// TransferWindowChangedData is published when the window opens or closes.
type TransferWindowChangedData struct {
	Open bool `json:"open"`
}

func (d *TransferWindowChangedData) EventType() EventType { return TransferWindowChanged }

// TransactionRecordedData wraps a new ledger entry.
type TransactionRecordedData struct {
	Transaction model.Transaction `json:"transaction"`
	Balance     int64             `json:"balance"`
}

func (d *TransactionRecordedData) EventType() EventType { return TransactionRecorded }

// LedgerWarningData reports a scheduled payment that failed.
type LedgerWarningData struct {
	Warning model.LedgerWarning `json:"warning"`
}

func (d *LedgerWarningData) EventType() EventType { return LedgerWarningRaised }

// SalariesPaidData is the monthly payroll summary.
type SalariesPaidData struct {
	Payment model.SalaryPayment `json:"payment"`
}

func (d *SalariesPaidData) EventType() EventType { return SalariesPaid }

// OfferStatusChangedData reports any offer lifecycle transition.
type OfferStatusChangedData struct {
	OfferID  string            `json:"offer_id"`
	PlayerID string            `json:"player_id"`
	From     model.OfferStatus `json:"from,omitempty"`
	To       model.OfferStatus `json:"to"`
	Amount   int64             `json:"amount"`
}

func (d *OfferStatusChangedData) EventType() EventType { return OfferStatusChanged }

// CounterOfferSubmittedData reports a new amount on the table.
type CounterOfferSubmittedData struct {
	OfferID string      `json:"offer_id"`
	Amount  int64       `json:"amount"`
	Sender  model.Party `json:"sender"`
}

func (d *CounterOfferSubmittedData) EventType() EventType { return CounterOfferSubmitted }

// TransferCompletedData carries the settled deal.
type TransferCompletedData struct {
	Transfer         model.CompletedTransfer `json:"transfer"`
	ReputationImpact float64                 `json:"reputation_impact"`
}

func (d *TransferCompletedData) EventType() EventType { return TransferCompleted }

// ScoutChangedData covers hiring and dismissal.
type ScoutChangedData struct {
	Type    EventType `json:"-"`
	ScoutID string    `json:"scout_id"`
	Name    string    `json:"name"`
}

func (d *ScoutChangedData) EventType() EventType { return d.Type }

// MissionData covers mission start, completion and cancellation.
type MissionData struct {
	Type      EventType          `json:"-"`
	Mission   model.ScoutMission `json:"mission"`
	PlayerIDs []string           `json:"player_ids,omitempty"`
}

func (d *MissionData) EventType() EventType { return d.Type }

// ScoutingEventGeneratedData carries an opportunity awaiting a decision.
type ScoutingEventGeneratedData struct {
	Event model.ScoutingEvent `json:"event"`
}

func (d *ScoutingEventGeneratedData) EventType() EventType { return ScoutingEventGenerated }

// ScoutingEventResolvedData reports the outcome of a decision.
type ScoutingEventResolvedData struct {
	EventID  string `json:"event_id"`
	OptionID string `json:"option_id,omitempty"`
	Ignored  bool   `json:"ignored"`
	Success  bool   `json:"success"`
	PlayerID string `json:"player_id,omitempty"`
}

func (d *ScoutingEventResolvedData) EventType() EventType { return ScoutingEventResolved }

// MarketTrendsUpdatedData carries freshly computed trends.
type MarketTrendsUpdatedData struct {
	Trends []model.MarketTrend `json:"trends"`
}

func (d *MarketTrendsUpdatedData) EventType() EventType { return MarketTrendsUpdated }
