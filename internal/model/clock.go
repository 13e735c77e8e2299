package model

import "time"

// GameClock is the single source of simulated time.
type GameClock struct {
	CurrentDate        time.Time `json:"current_date" msgpack:"current_date"`
	GameSpeed          float64   `json:"game_speed" msgpack:"game_speed"`
	IsPaused           bool      `json:"is_paused" msgpack:"is_paused"`
	CurrentWeek        int       `json:"current_week" msgpack:"current_week"`
	TransferWindowOpen bool      `json:"transfer_window_open" msgpack:"transfer_window_open"`
}
