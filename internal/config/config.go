package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"AgencyEngine/internal/model"
)

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Game struct {
		StartDate            string  `yaml:"start_date"`
		StartingBalance      int64   `yaml:"starting_balance"`
		Seed                 uint64  `yaml:"seed"`
		DaysPerTick          float64 `yaml:"days_per_tick"`
		TickCron             string  `yaml:"tick_cron"`
		TransferWindowMonths []int   `yaml:"transfer_window_months"`
		InitialPlayers       int     `yaml:"initial_players"`
	} `yaml:"game"`
	Transfers struct {
		OfferExpiryDays    int     `yaml:"offer_expiry_days"`
		AgentFeePercentage float64 `yaml:"agent_fee_percentage"`
		MinOfferRatio      float64 `yaml:"min_offer_ratio"`
		PotentialPremium   float64 `yaml:"potential_premium"`
		RequireOpenWindow  bool    `yaml:"require_open_window"`
	} `yaml:"transfers"`
	Scouting struct {
		OfficeLevel          int             `yaml:"office_level"`
		ScoutsPerOfficeLevel int             `yaml:"scouts_per_office_level"`
		EventCooldownDays    int             `yaml:"event_cooldown_days"`
		Countries            []model.Country `yaml:"countries"`
	} `yaml:"scouting"`
	Finance struct {
		BaseSalary      int64       `yaml:"base_salary"`
		LevelMultiplier float64     `yaml:"level_multiplier"`
		Recurring       []Recurring `yaml:"recurring"`
	} `yaml:"finance"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	StateFile string `yaml:"state_file"`
	Log       struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Recurring is an obligation registered when a new game starts.
type Recurring struct {
	Name      string                `yaml:"name"`
	Type      model.TransactionType `yaml:"type"`
	Category  string                `yaml:"category"`
	Amount    int64                 `yaml:"amount"`
	Frequency model.Frequency       `yaml:"frequency"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("AGENCY_START_DATE"); v != "" {
		cfg.Game.StartDate = v
	}
	if v := os.Getenv("AGENCY_STARTING_BALANCE"); v != "" {
		var balance int64
		if _, err := fmt.Sscanf(v, "%d", &balance); err == nil {
			cfg.Game.StartingBalance = balance
		}
	}
	if v := os.Getenv("AGENCY_SEED"); v != "" {
		var seed uint64
		if _, err := fmt.Sscanf(v, "%d", &seed); err == nil {
			cfg.Game.Seed = seed
		}
	}
	if v := os.Getenv("AGENCY_DAYS_PER_TICK"); v != "" {
		var days float64
		if _, err := fmt.Sscanf(v, "%f", &days); err == nil {
			cfg.Game.DaysPerTick = days
		}
	}
	if v := os.Getenv("AGENCY_TICK_CRON"); v != "" {
		cfg.Game.TickCron = v
	}
	if v := os.Getenv("AGENCY_OFFICE_LEVEL"); v != "" {
		var level int
		if _, err := fmt.Sscanf(v, "%d", &level); err == nil {
			cfg.Scouting.OfficeLevel = level
		}
	}
	if v := os.Getenv("AGENCY_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("AGENCY_STATE_FILE"); v != "" {
		cfg.StateFile = v
	}
	if v := os.Getenv("AGENCY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Game.StartDate == "" {
		c.Game.StartDate = "2025-07-01"
	}
	if c.Game.StartingBalance == 0 {
		c.Game.StartingBalance = 1_000_000
	}
	if c.Game.Seed == 0 {
		c.Game.Seed = 42
	}
	if c.Game.DaysPerTick == 0 {
		c.Game.DaysPerTick = 1
	}
	if c.Game.TickCron == "" {
		c.Game.TickCron = "@every 1s"
	}
	if len(c.Game.TransferWindowMonths) == 0 {
		c.Game.TransferWindowMonths = []int{1, 7, 8}
	}
	if c.Game.InitialPlayers == 0 {
		c.Game.InitialPlayers = 40
	}
	if c.Transfers.OfferExpiryDays == 0 {
		c.Transfers.OfferExpiryDays = 7
	}
	if c.Transfers.AgentFeePercentage == 0 {
		c.Transfers.AgentFeePercentage = 10
	}
	if c.Transfers.MinOfferRatio == 0 {
		c.Transfers.MinOfferRatio = 0.8
	}
	if c.Transfers.PotentialPremium == 0 {
		c.Transfers.PotentialPremium = 0.15
	}
	if c.Scouting.OfficeLevel == 0 {
		c.Scouting.OfficeLevel = 1
	}
	if c.Scouting.ScoutsPerOfficeLevel == 0 {
		c.Scouting.ScoutsPerOfficeLevel = 2
	}
	if c.Scouting.EventCooldownDays == 0 {
		c.Scouting.EventCooldownDays = 7
	}
	if len(c.Scouting.Countries) == 0 {
		c.Scouting.Countries = []model.Country{
			{ID: "ENG", Name: "England", Type: model.Local},
			{ID: "FRA", Name: "France", Type: model.Nearby},
			{ID: "ESP", Name: "Spain", Type: model.Continental},
			{ID: "BRA", Name: "Brazil", Type: model.International},
		}
	}
	if c.Finance.BaseSalary == 0 {
		c.Finance.BaseSalary = 3000
	}
	if c.Finance.LevelMultiplier == 0 {
		c.Finance.LevelMultiplier = 1.5
	}
	if c.StateFile == "" {
		c.StateFile = "data/agency_state.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Start parses the configured start date.
func (c *Config) Start() (time.Time, error) {
	t, err := time.Parse(dateLayout, c.Game.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("game.start_date: %w", err)
	}
	return t, nil
}

// WindowMonths converts the configured transfer window months.
func (c *Config) WindowMonths() []time.Month {
	out := make([]time.Month, 0, len(c.Game.TransferWindowMonths))
	for _, m := range c.Game.TransferWindowMonths {
		out = append(out, time.Month(m))
	}
	return out
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	if _, err := c.Start(); err != nil {
		return err
	}
	if c.Game.StartingBalance < 0 {
		return fmt.Errorf("game.starting_balance must not be negative")
	}
	if c.Game.DaysPerTick < 1 {
		return fmt.Errorf("game.days_per_tick must be at least 1")
	}
	for _, m := range c.Game.TransferWindowMonths {
		if m < 1 || m > 12 {
			return fmt.Errorf("game.transfer_window_months: invalid month %d", m)
		}
	}
	if c.Transfers.AgentFeePercentage < 0 || c.Transfers.AgentFeePercentage > 100 {
		return fmt.Errorf("transfers.agent_fee_percentage must be within [0,100]")
	}
	if c.Transfers.MinOfferRatio <= 0 {
		return fmt.Errorf("transfers.min_offer_ratio must be positive")
	}
	if c.Scouting.OfficeLevel < 1 || c.Scouting.ScoutsPerOfficeLevel < 1 {
		return fmt.Errorf("scouting.office_level and scouting.scouts_per_office_level must be positive")
	}
	seen := map[string]bool{}
	for _, ct := range c.Scouting.Countries {
		if ct.ID == "" {
			return fmt.Errorf("scouting.countries: missing id")
		}
		if seen[ct.ID] {
			return fmt.Errorf("scouting.countries: duplicate id %q", ct.ID)
		}
		seen[ct.ID] = true
		switch ct.Type {
		case model.Local, model.Nearby, model.Continental, model.International:
		default:
			return fmt.Errorf("scouting.countries: %s has unknown type %q", ct.ID, ct.Type)
		}
	}
	if c.Finance.BaseSalary <= 0 || c.Finance.LevelMultiplier <= 0 {
		return fmt.Errorf("finance.base_salary and finance.level_multiplier must be positive")
	}
	for _, r := range c.Finance.Recurring {
		if r.Amount <= 0 || !r.Frequency.Valid() || (r.Type != model.Income && r.Type != model.Expense) {
			return fmt.Errorf("finance.recurring: invalid obligation %q", r.Name)
		}
	}
	return nil
}
