package model

import "time"

// Position is a player's pitch role.
type Position string

const (
	Goalkeeper Position = "GK"
	Defender   Position = "DEF"
	Midfielder Position = "MID"
	Forward    Position = "FWD"
)

// Positions lists every position in display order.
var Positions = []Position{Goalkeeper, Defender, Midfielder, Forward}

// Player is the external player entity the engine reads and reassigns.
type Player struct {
	ID          string         `json:"id" msgpack:"id"`
	Name        string         `json:"name" msgpack:"name"`
	Age         int            `json:"age" msgpack:"age"`
	Position    Position       `json:"position" msgpack:"position"`
	Nationality string         `json:"nationality" msgpack:"nationality"`
	TeamID      string         `json:"team_id" msgpack:"team_id"`
	Rating      int            `json:"rating" msgpack:"rating"`
	Potential   int            `json:"potential" msgpack:"potential"`
	Value       int64          `json:"value" msgpack:"value"`
	Form        *int           `json:"form,omitempty" msgpack:"form,omitempty"`
	ContractEnd time.Time      `json:"contract_end" msgpack:"contract_end"`
	Attributes  map[string]int `json:"attributes" msgpack:"attributes"`
}

// ContractMonthsRemaining returns whole months left on the contract at now, never negative.
func (p Player) ContractMonthsRemaining(now time.Time) int {
	if !p.ContractEnd.After(now) {
		return 0
	}
	months := (p.ContractEnd.Year()-now.Year())*12 + int(p.ContractEnd.Month()-now.Month())
	if p.ContractEnd.Day() < now.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// PlayerConstraints steer the external player generator.
type PlayerConstraints struct {
	Position       Position `json:"position,omitempty"`
	MinAge         int      `json:"min_age,omitempty"`
	MaxAge         int      `json:"max_age,omitempty"`
	MinRating      int      `json:"min_rating,omitempty"`
	MaxRating      int      `json:"max_rating,omitempty"`
	Nationality    string   `json:"nationality,omitempty"`
	PotentialBonus int      `json:"potential_bonus,omitempty"`
}
