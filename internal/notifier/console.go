// Package notifier prints engine events and reports to the console.
package notifier

import (
	"fmt"
	"io"
	"sync"

	"AgencyEngine/internal/events"
)

// Console writes one formatted line per notable event.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console notifier writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Handle is an events.Handler.
func (c *Console) Handle(evt events.Event) {
	text, ok := FormatEvent(evt)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// Subscribe attaches the console to bus.
func (c *Console) Subscribe(bus *events.Bus) {
	bus.Subscribe(c.Handle)
}
