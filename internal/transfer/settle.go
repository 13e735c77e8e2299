package transfer

import (
	"fmt"
	"math"
	"slices"
	"time"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/model"
)

// AgentFee is the commission due on a deal of amount.
func AgentFee(amount int64, percentage float64) int64 {
	return int64(math.Round(float64(amount) * percentage / 100))
}

// ReputationImpact is the standing gained from a deal of the given fee:
// one point plus one per million, capped at five.
func ReputationImpact(fee int64) float64 {
	return math.Min(5, 1+float64(fee)/1_000_000)
}

// AcceptOffer settles an active offer. Only the agent fee leaves the
// treasury here; the reservation, kept equal to the current amount, pays
// for the transfer.
func (e *Engine) AcceptOffer(offerID string) (model.CompletedTransfer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, err := e.activeIndex(offerID, "accept")
	if err != nil {
		return model.CompletedTransfer{}, err
	}
	if e.cfg.RequireOpenWindow && !e.clock.TransferWindowOpen() {
		return model.CompletedTransfer{}, fmt.Errorf("accept %s: %w", offerID, model.ErrTransferWindowClosed)
	}
	o := e.book.Offers[i]
	p, err := e.roster.Get(o.PlayerID)
	if err != nil {
		return model.CompletedTransfer{}, err
	}

	fee := AgentFee(o.CurrentOffer, o.AgentFeePercentage)
	if _, err := e.treasury.Spend(fee, CategoryAgentFee, fmt.Sprintf("agent fee for %s", p.Name)); err != nil {
		return model.CompletedTransfer{}, fmt.Errorf("accept %s: %w", offerID, err)
	}
	if err := e.roster.AssignTeam(o.PlayerID, o.ToTeamID); err != nil {
		if fee > 0 {
			if _, rerr := e.treasury.Credit(fee, CategoryAgentFee, "refund agent fee"); rerr != nil {
				e.log.Error().Err(rerr).Str("offer_id", offerID).Msg("Refund failed")
			}
		}
		return model.CompletedTransfer{}, fmt.Errorf("accept %s: %w", offerID, err)
	}

	today := e.clock.Today()
	from := o.Status
	o.Status = model.OfferAccepted
	e.publishStatus(o, from)

	ct := model.CompletedTransfer{
		ID:          e.ids.Next("transfer"),
		OfferID:     o.ID,
		PlayerID:    p.ID,
		Position:    p.Position,
		PlayerAge:   p.Age,
		PlayerValue: p.Value,
		FromTeamID:  o.FromTeamID,
		ToTeamID:    o.ToTeamID,
		Fee:         o.CurrentOffer,
		AgentFee:    fee,
		Conditions:  slices.Clone(o.Conditions),
		Date:        today,
	}
	e.book.Completed = append(e.book.Completed, ct)

	impact := ReputationImpact(ct.Fee)
	e.book.Reputation += impact

	o.NegotiationStage = model.StageFinal
	o.Messages = append(o.Messages, model.NegotiationMessage{Sender: model.PartyClub, Text: "Offer accepted", Date: today})
	e.archive(i, o, model.OfferCompleted)

	e.log.Info().
		Str("offer_id", o.ID).
		Int64("fee", ct.Fee).
		Int64("agent_fee", fee).
		Float64("reputation", e.book.Reputation).
		Msg("Transfer completed")
	e.pub.Publish(today, module, &events.TransferCompletedData{Transfer: ct, ReputationImpact: impact})
	return ct, nil
}

// RejectOffer ends an active offer and releases its reservation.
func (e *Engine) RejectOffer(offerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, err := e.activeIndex(offerID, "reject")
	if err != nil {
		return err
	}
	o := e.book.Offers[i]
	if err := e.release(o); err != nil {
		return fmt.Errorf("reject %s: %w", offerID, err)
	}
	o.Messages = append(o.Messages, model.NegotiationMessage{Sender: model.PartyClub, Text: "Offer rejected", Date: e.clock.Today()})
	e.archive(i, o, model.OfferRejected)
	return nil
}

// ExpireOffers moves every active offer whose deadline passed before today
// to EXPIRED and releases its reservation.
func (e *Engine) ExpireOffers(today time.Time) []model.TransferOffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	var expired []model.TransferOffer
	for i := 0; i < len(e.book.Offers); {
		if !today.After(e.book.Offers[i].ExpiresAt) {
			i++
			continue
		}
		expired = append(expired, e.expire(i, today))
	}
	return expired
}

// expire removes offer i from the active set; mu must be held.
func (e *Engine) expire(i int, today time.Time) model.TransferOffer {
	o := e.book.Offers[i]
	if err := e.release(o); err != nil {
		e.log.Error().Err(err).Str("offer_id", o.ID).Msg("Releasing expired offer")
	}
	o.Messages = append(o.Messages, model.NegotiationMessage{Sender: model.PartyClub, Text: "Offer expired", Date: today})
	e.log.Info().Str("offer_id", o.ID).Msg("Offer expired")
	return e.archive(i, o, model.OfferExpired)
}

func (e *Engine) release(o model.TransferOffer) error {
	_, err := e.treasury.Credit(o.Reserved, CategoryRelease, fmt.Sprintf("release offer %s", o.ID))
	return err
}

// archive moves offer i to the archive with a terminal status.
func (e *Engine) archive(i int, o model.TransferOffer, status model.OfferStatus) model.TransferOffer {
	from := o.Status
	o.Status = status
	e.book.Offers = slices.Delete(e.book.Offers, i, i+1)
	e.book.Archive = append(e.book.Archive, o)
	e.publishStatus(o, from)
	return o
}
