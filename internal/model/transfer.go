package model

import "time"

// OfferStatus is the negotiation lifecycle state of a transfer offer.
type OfferStatus string

const (
	OfferPending     OfferStatus = "PENDING"
	OfferNegotiating OfferStatus = "NEGOTIATING"
	OfferAccepted    OfferStatus = "ACCEPTED"
	OfferRejected    OfferStatus = "REJECTED"
	OfferCompleted   OfferStatus = "COMPLETED"
	OfferExpired     OfferStatus = "EXPIRED"
)

// Active reports whether an offer in this status can still be negotiated.
func (s OfferStatus) Active() bool {
	return s == OfferPending || s == OfferNegotiating
}

// NegotiationStage tracks where the haggling is.
type NegotiationStage string

const (
	StageInitial      NegotiationStage = "INITIAL"
	StageCounterOffer NegotiationStage = "COUNTER_OFFER"
	StageFinal        NegotiationStage = "FINAL"
)

// Party identifies who sent a counter-offer or message.
type Party string

const (
	PartyAgent Party = "AGENT"
	PartyClub  Party = "CLUB"
)

// CounterOffer is one amount proposed during negotiation.
type CounterOffer struct {
	Amount int64     `json:"amount" msgpack:"amount"`
	Sender Party     `json:"sender" msgpack:"sender"`
	Date   time.Time `json:"date" msgpack:"date"`
}

// NegotiationMessage is a line in the offer's conversation.
type NegotiationMessage struct {
	Sender Party     `json:"sender" msgpack:"sender"`
	Text   string    `json:"text" msgpack:"text"`
	Date   time.Time `json:"date" msgpack:"date"`
}

// TransferCondition attaches a bonus payable when a season threshold is reached.
type TransferCondition struct {
	Type      string `json:"type" msgpack:"type"`
	Threshold int    `json:"threshold" msgpack:"threshold"`
	Bonus     int64  `json:"bonus" msgpack:"bonus"`
}

// TransferOffer is a negotiation for one player between two teams.
type TransferOffer struct {
	ID                 string               `json:"id" msgpack:"id"`
	PlayerID           string               `json:"player_id" msgpack:"player_id"`
	FromTeamID         string               `json:"from_team_id" msgpack:"from_team_id"`
	ToTeamID           string               `json:"to_team_id" msgpack:"to_team_id"`
	InitialOffer       int64                `json:"initial_offer" msgpack:"initial_offer"`
	CurrentOffer       int64                `json:"current_offer" msgpack:"current_offer"`
	Reserved           int64                `json:"reserved" msgpack:"reserved"`
	Status             OfferStatus          `json:"status" msgpack:"status"`
	NegotiationStage   NegotiationStage     `json:"negotiation_stage" msgpack:"negotiation_stage"`
	CounterOffers      []CounterOffer       `json:"counter_offers" msgpack:"counter_offers"`
	Conditions         []TransferCondition  `json:"conditions" msgpack:"conditions"`
	AgentFeePercentage float64              `json:"agent_fee_percentage" msgpack:"agent_fee_percentage"`
	CreatedAt          time.Time            `json:"created_at" msgpack:"created_at"`
	ExpiresAt          time.Time            `json:"expires_at" msgpack:"expires_at"`
	Messages           []NegotiationMessage `json:"messages" msgpack:"messages"`
}

// CompletedTransfer is an immutable snapshot of a concluded deal.
type CompletedTransfer struct {
	ID          string              `json:"id" msgpack:"id"`
	OfferID     string              `json:"offer_id" msgpack:"offer_id"`
	PlayerID    string              `json:"player_id" msgpack:"player_id"`
	Position    Position            `json:"position" msgpack:"position"`
	PlayerAge   int                 `json:"player_age" msgpack:"player_age"`
	PlayerValue int64               `json:"player_value" msgpack:"player_value"`
	FromTeamID  string              `json:"from_team_id" msgpack:"from_team_id"`
	ToTeamID    string              `json:"to_team_id" msgpack:"to_team_id"`
	Fee         int64               `json:"fee" msgpack:"fee"`
	AgentFee    int64               `json:"agent_fee" msgpack:"agent_fee"`
	Conditions  []TransferCondition `json:"conditions" msgpack:"conditions"`
	Date        time.Time           `json:"date" msgpack:"date"`
}

// TransferBook is everything the negotiation engine owns.
type TransferBook struct {
	Offers     []TransferOffer     `json:"offers" msgpack:"offers"`
	Archive    []TransferOffer     `json:"archive" msgpack:"archive"`
	Completed  []CompletedTransfer `json:"completed" msgpack:"completed"`
	Reputation float64             `json:"reputation" msgpack:"reputation"`
	Trends     []MarketTrend       `json:"trends" msgpack:"trends"`
}

// TrendDirection summarises a price change.
type TrendDirection string

const (
	TrendUp     TrendDirection = "UP"
	TrendDown   TrendDirection = "DOWN"
	TrendStable TrendDirection = "STABLE"
)

// MarketTrend is the recent price movement for one position.
type MarketTrend struct {
	Position          Position  `json:"position" msgpack:"position"`
	AveragePrice      int64     `json:"average_price" msgpack:"average_price"`
	NumberOfTransfers int       `json:"number_of_transfers" msgpack:"number_of_transfers"`
	PriceChange       float64   `json:"price_change" msgpack:"price_change"` // percent
	Timestamp         time.Time `json:"timestamp" msgpack:"timestamp"`
}
