package scheduler

import (
	"slices"
	"sync"
	"time"

	"AgencyEngine/internal/model"
)

// DefaultWindowMonths are the months the transfer window is open.
var DefaultWindowMonths = []time.Month{time.January, time.July, time.August}

// Clock guards the GameClock. It is the only writer of simulated time.
type Clock struct {
	mu     sync.RWMutex
	state  *model.GameClock
	months []time.Month
}

// NewClock wraps state and derives the window flag from its date.
func NewClock(state *model.GameClock, windowMonths []time.Month) *Clock {
	if len(windowMonths) == 0 {
		windowMonths = DefaultWindowMonths
	}
	if state.GameSpeed <= 0 {
		state.GameSpeed = 1
	}
	state.CurrentDate = Midnight(state.CurrentDate)
	state.TransferWindowOpen = WindowOpen(state.CurrentDate, windowMonths)
	return &Clock{state: state, months: slices.Clone(windowMonths)}
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WindowOpen reports whether date falls in one of the window months.
func WindowOpen(date time.Time, months []time.Month) bool {
	return slices.Contains(months, date.Month())
}

// Today is the current simulated date.
func (c *Clock) Today() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.CurrentDate
}

// Week is the number of week boundaries crossed since the game started.
func (c *Clock) Week() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.CurrentWeek
}

// TransferWindowOpen reports the window state for today.
func (c *Clock) TransferWindowOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.TransferWindowOpen
}

// Paused reports whether time is frozen.
func (c *Clock) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsPaused
}

// Speed is the number of simulated days per real-time tick.
func (c *Clock) Speed() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.GameSpeed
}

// SetSpeed changes the days per tick; values below one are ignored.
func (c *Clock) SetSpeed(speed float64) {
	if speed < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.GameSpeed = speed
}

// State returns a copy of the GameClock.
func (c *Clock) State() model.GameClock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.state
}

func (c *Clock) setPaused(p bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsPaused = p
}

// advance moves the date one day. A new week starts on Monday.
func (c *Clock) advance() (today time.Time, weekChanged, windowChanged bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.CurrentDate = s.CurrentDate.AddDate(0, 0, 1)
	if s.CurrentDate.Weekday() == time.Monday {
		s.CurrentWeek++
		weekChanged = true
	}
	open := WindowOpen(s.CurrentDate, c.months)
	windowChanged = open != s.TransferWindowOpen
	s.TransferWindowOpen = open
	return s.CurrentDate, weekChanged, windowChanged
}
