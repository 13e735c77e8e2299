// Package events publishes engine state changes to subscribers such as the
// presentation layer, the recorder and the console notifier.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event is a published state change stamped with simulated time.
type Event struct {
	Type   EventType `json:"type"`
	Date   time.Time `json:"date"`
	Module string    `json:"module"`
	Data   EventData `json:"data"`
}

// Handler receives events synchronously, in publish order.
type Handler func(Event)

// Publisher is what the engine services depend on.
type Publisher interface {
	Publish(date time.Time, module string, data EventData)
}

// Bus fans events out to subscribers and logs each one.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	log      zerolog.Logger
}

// NewBus creates an empty bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{log: log.With().Str("service", "events").Logger()}
}

// Subscribe registers h for every subsequent event.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers data to all subscribers.
func (b *Bus) Publish(date time.Time, module string, data EventData) {
	if data == nil {
		return
	}
	evt := Event{Type: data.EventType(), Date: date, Module: module, Data: data}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}

	if b.log.GetLevel() <= zerolog.DebugLevel {
		payload, _ := json.Marshal(data)
		b.log.Debug().
			Str("event_type", string(evt.Type)).
			Str("module", module).
			Time("sim_date", date).
			RawJSON("data", payload).
			Msg("Event published")
	}
}

// Nop discards everything; used where no subscriber is wired.
type Nop struct{}

func (Nop) Publish(time.Time, string, EventData) {}

// Collector keeps every published event in memory. Tests and the CLI use it.
type Collector struct {
	mu     sync.Mutex
	Events []Event
}

// Handle appends evt.
func (c *Collector) Handle(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, evt)
}

// OfType returns the collected events of type t.
func (c *Collector) OfType(t EventType) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
