package events

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgencyEngine/internal/model"
)

func TestBus_DeliversInOrder(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var got []EventType
	bus.Subscribe(func(e Event) { got = append(got, e.Type) })

	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	bus.Publish(day, "clock", &ClockTickedData{Date: day, Week: 1})
	bus.Publish(day, "clock", &TransferWindowChangedData{Open: true})

	assert.Equal(t, []EventType{ClockTicked, TransferWindowChanged}, got)
}

func TestBus_IgnoresNilData(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	called := false
	bus.Subscribe(func(Event) { called = true })
	bus.Publish(time.Time{}, "x", nil)
	assert.False(t, called)
}

func TestCollector_OfType(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	c := &Collector{}
	bus.Subscribe(c.Handle)

	bus.Publish(time.Time{}, "scouting", &MissionData{Type: MissionStarted, Mission: model.ScoutMission{ID: "m1"}})
	bus.Publish(time.Time{}, "scouting", &MissionData{Type: MissionCompleted, Mission: model.ScoutMission{ID: "m1"}})

	started := c.OfType(MissionStarted)
	require.Len(t, started, 1)
	assert.Equal(t, "m1", started[0].Data.(*MissionData).Mission.ID)
	assert.Len(t, c.Events, 2)
}
