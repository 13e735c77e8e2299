package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFrequencyNext(t *testing.T) {
	tests := []struct {
		name   string
		freq   Frequency
		from   time.Time
		anchor int
		want   time.Time
	}{
		{"daily", Daily, date(2026, 1, 31), 31, date(2026, 2, 1)},
		{"weekly", Weekly, date(2026, 1, 29), 29, date(2026, 2, 5)},
		{"monthly plain", Monthly, date(2025, 7, 1), 1, date(2025, 8, 1)},
		{"monthly clamps to february", Monthly, date(2026, 1, 31), 31, date(2026, 2, 28)},
		{"monthly returns to anchor", Monthly, date(2026, 2, 28), 31, date(2026, 3, 31)},
		{"monthly thirty-day month", Monthly, date(2026, 3, 31), 31, date(2026, 4, 30)},
		{"monthly leap february", Monthly, date(2028, 1, 30), 30, date(2028, 2, 29)},
		{"monthly year rollover", Monthly, date(2025, 12, 31), 31, date(2026, 1, 31)},
		{"monthly without anchor", Monthly, date(2025, 7, 15), 0, date(2025, 8, 15)},
		{"yearly leap day", Yearly, date(2028, 2, 29), 29, date(2029, 2, 28)},
		{"yearly back to leap day", Yearly, date(2031, 2, 28), 29, date(2032, 2, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.freq.Next(tt.from, tt.anchor))
		})
	}
}
