// Package state is the persistence collaborator: a fully serialisable
// snapshot of the engine, saved as a JSON file or encoded with msgpack.
package state

import (
	"time"

	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/model"
)

// Version is bumped when the snapshot shape changes incompatibly.
const Version = 1

// Snapshot is everything needed to resume a game and replay it exactly.
type Snapshot struct {
	Version   int                 `json:"version" msgpack:"version"`
	Clock     model.GameClock     `json:"clock" msgpack:"clock"`
	Ledger    model.LedgerState   `json:"ledger" msgpack:"ledger"`
	Transfers model.TransferBook  `json:"transfers" msgpack:"transfers"`
	Scouting  model.ScoutingState `json:"scouting" msgpack:"scouting"`
	Players   []model.Player      `json:"players" msgpack:"players"`
	RNG       []byte              `json:"rng" msgpack:"rng"`
	IDs       ids.Sequence        `json:"ids" msgpack:"ids"`
}

// normalize puts every timestamp in UTC so calendar arithmetic after a
// restore does not depend on the host time zone.
func (s *Snapshot) normalize() {
	utc := func(t *time.Time) { *t = t.UTC() }

	utc(&s.Clock.CurrentDate)

	l := &s.Ledger
	utc(&l.Treasury.LastUpdate)
	for i := range l.Transactions {
		utc(&l.Transactions[i].Date)
	}
	for i := range l.Recurring {
		utc(&l.Recurring[i].NextDueDate)
	}
	for i := range l.SalaryPayments {
		utc(&l.SalaryPayments[i].Date)
	}
	for i := range l.Warnings {
		utc(&l.Warnings[i].Date)
	}

	offers := func(os []model.TransferOffer) {
		for i := range os {
			o := &os[i]
			utc(&o.CreatedAt)
			utc(&o.ExpiresAt)
			for j := range o.CounterOffers {
				utc(&o.CounterOffers[j].Date)
			}
			for j := range o.Messages {
				utc(&o.Messages[j].Date)
			}
		}
	}
	offers(s.Transfers.Offers)
	offers(s.Transfers.Archive)
	for i := range s.Transfers.Completed {
		utc(&s.Transfers.Completed[i].Date)
	}
	for i := range s.Transfers.Trends {
		utc(&s.Transfers.Trends[i].Timestamp)
	}

	sc := &s.Scouting
	for i := range sc.Scouts {
		utc(&sc.Scouts[i].HiredAt)
	}
	for i := range sc.Missions {
		utc(&sc.Missions[i].StartDate)
	}
	for i := range sc.PendingEvents {
		utc(&sc.PendingEvents[i].CreatedAt)
	}
	for i := range sc.Reports {
		utc(&sc.Reports[i].CreatedAt)
	}
	for k, v := range sc.LastEventRolls {
		sc.LastEventRolls[k] = v.UTC()
	}

	for i := range s.Players {
		utc(&s.Players[i].ContractEnd)
	}
}
