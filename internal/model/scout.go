package model

import (
	"slices"
	"time"
)

// Abilities are scout skills, each in [0,100].
type Abilities struct {
	Evaluation  int `json:"evaluation" msgpack:"evaluation"`
	Negotiation int `json:"negotiation" msgpack:"negotiation"`
	Youth       int `json:"youth" msgpack:"youth"`
}

// ScoutStats accumulate over completed missions and resolved events.
type ScoutStats struct {
	MissionsCompleted int     `json:"missions_completed" msgpack:"missions_completed"`
	SuccessfulFinds   int     `json:"successful_finds" msgpack:"successful_finds"`
	ReportsFiled      int     `json:"reports_filed" msgpack:"reports_filed"`
	Accuracy          float64 `json:"accuracy" msgpack:"accuracy"`
}

// Scout is a hired talent scout.
type Scout struct {
	ID                 string     `json:"id" msgpack:"id"`
	Name               string     `json:"name" msgpack:"name"`
	Level              int        `json:"level" msgpack:"level"`
	Salary             int64      `json:"salary" msgpack:"salary"`
	Abilities          Abilities  `json:"abilities" msgpack:"abilities"`
	Specialties        []Position `json:"specialties" msgpack:"specialties"`
	PreferredCountries []string   `json:"preferred_countries" msgpack:"preferred_countries"`
	CurrentMission     string     `json:"current_mission,omitempty" msgpack:"current_mission,omitempty"`
	Stats              ScoutStats `json:"stats" msgpack:"stats"`
	HiredAt            time.Time  `json:"hired_at" msgpack:"hired_at"`
}

// Busy reports whether the scout is on a mission.
func (s Scout) Busy() bool { return s.CurrentMission != "" }

// Prefers reports whether countryID is one of the scout's preferred countries.
func (s Scout) Prefers(countryID string) bool {
	return slices.Contains(s.PreferredCountries, countryID)
}

// Specialises reports whether pos is one of the scout's specialties.
func (s Scout) Specialises(pos Position) bool {
	return slices.Contains(s.Specialties, pos)
}

// DistanceType classifies a country relative to the agency's base.
type DistanceType string

const (
	Local         DistanceType = "LOCAL"
	Nearby        DistanceType = "NEARBY"
	Continental   DistanceType = "CONTINENTAL"
	International DistanceType = "INTERNATIONAL"
)

// Country is a scouting destination.
type Country struct {
	ID   string       `json:"id" yaml:"id" msgpack:"id"`
	Name string       `json:"name" yaml:"name" msgpack:"name"`
	Type DistanceType `json:"type" yaml:"type" msgpack:"type"`
}

// ScoutMission is a scout's time-boxed assignment to a country.
type ScoutMission struct {
	ID            string    `json:"id" msgpack:"id"`
	ScoutID       string    `json:"scout_id" msgpack:"scout_id"`
	CountryID     string    `json:"country_id" msgpack:"country_id"`
	StartDate     time.Time `json:"start_date" msgpack:"start_date"`
	DurationDays  int       `json:"duration_days" msgpack:"duration_days"`
	DaysRemaining int       `json:"days_remaining" msgpack:"days_remaining"`
	Cost          int64     `json:"cost" msgpack:"cost"`
}

// ScoutingEventType names a random scouting opportunity.
type ScoutingEventType string

const (
	WonderkidFound   ScoutingEventType = "WONDERKID_FOUND"
	HiddenGem        ScoutingEventType = "HIDDEN_GEM"
	BiddingWar       ScoutingEventType = "BIDDING_WAR"
	LocalConnection  ScoutingEventType = "LOCAL_CONNECTION"
	TournamentAccess ScoutingEventType = "TOURNAMENT_ACCESS"
)

// ScoutingEventTypes lists every event type.
var ScoutingEventTypes = []ScoutingEventType{
	WonderkidFound, HiddenGem, BiddingWar, LocalConnection, TournamentAccess,
}

// EventOption is one costed choice offered by a scouting event.
type EventOption struct {
	ID            string  `json:"id" msgpack:"id"`
	Label         string  `json:"label" msgpack:"label"`
	Cost          int64   `json:"cost" msgpack:"cost"`
	SuccessChance float64 `json:"success_chance" msgpack:"success_chance"`
}

// ScoutingEvent is an opportunity awaiting the player's decision.
type ScoutingEvent struct {
	ID          string            `json:"id" msgpack:"id"`
	Type        ScoutingEventType `json:"type" msgpack:"type"`
	CountryID   string            `json:"country_id" msgpack:"country_id"`
	ScoutID     string            `json:"scout_id" msgpack:"scout_id"`
	Description string            `json:"description" msgpack:"description"`
	Options     []EventOption     `json:"options" msgpack:"options"`
	CreatedAt   time.Time         `json:"created_at" msgpack:"created_at"`
}

// ScoutingReport is a scout's immutable assessment of one player.
type ScoutingReport struct {
	ID           string         `json:"id" msgpack:"id"`
	PlayerID     string         `json:"player_id" msgpack:"player_id"`
	ScoutID      string         `json:"scout_id" msgpack:"scout_id"`
	Accuracy     float64        `json:"accuracy" msgpack:"accuracy"`
	Estimates    map[string]int `json:"estimates" msgpack:"estimates"`
	Observations []string       `json:"observations" msgpack:"observations"`
	CreatedAt    time.Time      `json:"created_at" msgpack:"created_at"`
}

// ScoutingState is everything the scouting engine owns.
type ScoutingState struct {
	OfficeLevel    int                  `json:"office_level" msgpack:"office_level"`
	Scouts         []Scout              `json:"scouts" msgpack:"scouts"`
	Missions       []ScoutMission       `json:"missions" msgpack:"missions"`
	PendingEvents  []ScoutingEvent      `json:"pending_events" msgpack:"pending_events"`
	Reports        []ScoutingReport     `json:"reports" msgpack:"reports"`
	LastEventRolls map[string]time.Time `json:"last_event_rolls" msgpack:"last_event_rolls"`
}
