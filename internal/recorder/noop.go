package recorder

import (
	"time"

	"AgencyEngine/internal/events"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ events.Event) error              { return nil }
func (n *NoopRecorder) SaveSnapshot(_ time.Time, _ []byte) error { return nil }
func (n *NoopRecorder) Close() error                             { return nil }

func (n *NoopRecorder) LatestSnapshot() (time.Time, []byte, bool, error) {
	return time.Time{}, nil, false, nil
}
