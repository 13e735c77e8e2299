// Package recorder keeps a queryable history of a game: every published
// event, every ledger entry and periodic packed snapshots.
package recorder

import (
	"time"

	"github.com/rs/zerolog"

	"AgencyEngine/internal/events"
)

// Recorder persists historical data for analysis.
type Recorder interface {
	Record(evt events.Event) error
	SaveSnapshot(date time.Time, blob []byte) error
	// LatestSnapshot returns the most recent snapshot by simulated date.
	// ok is false when none has been saved.
	LatestSnapshot() (date time.Time, blob []byte, ok bool, err error)
	Close() error
}

// Subscribe records every event published on bus. Failures are logged,
// never propagated back into the engine.
func Subscribe(bus *events.Bus, r Recorder, log zerolog.Logger) {
	log = log.With().Str("service", "recorder").Logger()
	bus.Subscribe(func(evt events.Event) {
		if err := r.Record(evt); err != nil {
			log.Error().Err(err).Str("event_type", string(evt.Type)).Msg("Failed to record event")
		}
	})
}
