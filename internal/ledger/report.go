package ledger

import (
	"time"

	"AgencyEngine/internal/model"
)

// Period labels a report's span.
type Period string

const (
	PeriodWeekly    Period = "WEEKLY"
	PeriodMonthly   Period = "MONTHLY"
	PeriodQuarterly Period = "QUARTERLY"
	PeriodYearly    Period = "YEARLY"
	PeriodCustom    Period = "CUSTOM"
)

// CategoryTotal aggregates one category within a report.
type CategoryTotal struct {
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
	Count    int   `json:"count"`
}

// Report summarises transactions dated within [Start, End].
type Report struct {
	Period       Period                   `json:"period"`
	Start        time.Time                `json:"start"`
	End          time.Time                `json:"end"`
	Income       int64                    `json:"income"`
	Expenses     int64                    `json:"expenses"`
	Profit       int64                    `json:"profit"`
	Transactions int                      `json:"transactions"`
	ByCategory   map[string]CategoryTotal `json:"by_category"`
	Balance      int64                    `json:"balance"`
}

// GenerateReport aggregates the history between start and end inclusive.
func (l *Ledger) GenerateReport(start, end time.Time, period Period) Report {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := Summarize(l.state.Transactions, start, end, period)
	r.Balance = l.state.Treasury.Balance
	return r
}

// Summarize is the pure aggregation behind GenerateReport.
func Summarize(txs []model.Transaction, start, end time.Time, period Period) Report {
	r := Report{Period: period, Start: start, End: end, ByCategory: map[string]CategoryTotal{}}
	for _, tx := range txs {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		ct := r.ByCategory[tx.Category]
		switch tx.Type {
		case model.Income:
			r.Income += tx.Amount
			ct.Income += tx.Amount
		case model.Expense:
			r.Expenses += tx.Amount
			ct.Expenses += tx.Amount
		}
		ct.Count++
		r.ByCategory[tx.Category] = ct
		r.Transactions++
	}
	r.Profit = r.Income - r.Expenses
	return r
}

// benefitMultipliers convert one point of monthly benefit to currency.
var benefitMultipliers = map[model.BenefitType]float64{
	model.BenefitReputation:    1000,
	model.BenefitScoutingRange: 2000,
	model.BenefitTraining:      1500,
	model.BenefitNegotiation:   3000,
}

// CalculateROI returns (yearlyBenefit - yearlyCost) / cost × 100.
// A zero cost yields 0.
func CalculateROI(inv model.Investment) float64 {
	if inv.Cost <= 0 {
		return 0
	}
	var monthly float64
	for _, b := range inv.Benefits {
		monthly += b.Value * benefitMultipliers[b.Type]
	}
	yearlyBenefit := monthly * 12
	yearlyCost := float64(inv.MonthlyCost) * 12
	return (yearlyBenefit - yearlyCost) / float64(inv.Cost) * 100
}
