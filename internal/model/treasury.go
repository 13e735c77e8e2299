package model

import "time"

// Treasury is the agency's single shared cash balance.
type Treasury struct {
	Balance         int64     `json:"balance" msgpack:"balance"`
	MonthlyIncome   int64     `json:"monthly_income" msgpack:"monthly_income"`
	MonthlyExpenses int64     `json:"monthly_expenses" msgpack:"monthly_expenses"`
	LastUpdate      time.Time `json:"last_update" msgpack:"last_update"`
}

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID          string          `json:"id" msgpack:"id"`
	Type        TransactionType `json:"type" msgpack:"type"`
	Category    string          `json:"category" msgpack:"category"`
	Amount      int64           `json:"amount" msgpack:"amount"`
	Date        time.Time       `json:"date" msgpack:"date"`
	Description string          `json:"description" msgpack:"description"`
}

// Frequency controls how often a recurring obligation fires.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

// Next returns the due date following d. Monthly and yearly dates fall on
// anchorDay, clamped to the length of the target month, so a schedule
// anchored on the 31st keeps returning to month end. anchorDay <= 0 uses
// d's own day.
func (f Frequency) Next(d time.Time, anchorDay int) time.Time {
	switch f {
	case Daily:
		return d.AddDate(0, 0, 1)
	case Weekly:
		return d.AddDate(0, 0, 7)
	}
	if anchorDay <= 0 {
		anchorDay = d.Day()
	}
	months := 1
	if f == Yearly {
		months = 12
	}
	first := time.Date(d.Year(), d.Month(), 1, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
	target := first.AddDate(0, months, 0)
	last := target.AddDate(0, 1, -1).Day()
	return target.AddDate(0, 0, min(anchorDay, last)-1)
}

// PerMonth normalises an amount charged at this frequency to a monthly figure.
func (f Frequency) PerMonth(amount int64) int64 {
	switch f {
	case Daily:
		return amount * 30
	case Weekly:
		return amount * 52 / 12
	case Yearly:
		return amount / 12
	default:
		return amount
	}
}

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// RecurringObligation is a scheduled expense or income.
type RecurringObligation struct {
	ID          string          `json:"id" msgpack:"id"`
	Name        string          `json:"name" msgpack:"name"`
	Type        TransactionType `json:"type" msgpack:"type"`
	Category    string          `json:"category" msgpack:"category"`
	Amount      int64           `json:"amount" msgpack:"amount"`
	Frequency   Frequency       `json:"frequency" msgpack:"frequency"`
	NextDueDate time.Time       `json:"next_due_date" msgpack:"next_due_date"`
	// AnchorDay is the day of month monthly and yearly schedules return to.
	AnchorDay   int             `json:"anchor_day" msgpack:"anchor_day"`
	IsAutomatic bool            `json:"is_automatic" msgpack:"is_automatic"`
	// Unpaid is set when the last attempt could not be covered by the treasury.
	Unpaid bool `json:"unpaid" msgpack:"unpaid"`
}

// LedgerWarning records a scheduled payment that could not be settled.
type LedgerWarning struct {
	Date     time.Time `json:"date" msgpack:"date"`
	Category string    `json:"category" msgpack:"category"`
	Amount   int64     `json:"amount" msgpack:"amount"`
	Message  string    `json:"message" msgpack:"message"`
}

// SalaryPayment is one monthly payroll run with its per-scout breakdown.
type SalaryPayment struct {
	TransactionID string           `json:"transaction_id" msgpack:"transaction_id"`
	Date          time.Time        `json:"date" msgpack:"date"`
	Total         int64            `json:"total" msgpack:"total"`
	Breakdown     map[string]int64 `json:"breakdown" msgpack:"breakdown"`
}

// LedgerState is everything the finance ledger owns.
type LedgerState struct {
	Treasury       Treasury              `json:"treasury" msgpack:"treasury"`
	Transactions   []Transaction         `json:"transactions" msgpack:"transactions"`
	Recurring      []RecurringObligation `json:"recurring" msgpack:"recurring"`
	SalaryPayments []SalaryPayment       `json:"salary_payments" msgpack:"salary_payments"`
	SalaryArrears  int64                 `json:"salary_arrears" msgpack:"salary_arrears"`
	Warnings       []LedgerWarning       `json:"warnings" msgpack:"warnings"`
}

// BenefitType identifies what an investment improves.
type BenefitType string

const (
	BenefitReputation    BenefitType = "REPUTATION"
	BenefitScoutingRange BenefitType = "SCOUTING_RANGE"
	BenefitTraining      BenefitType = "TRAINING"
	BenefitNegotiation   BenefitType = "NEGOTIATION"
)

// Benefit is a monthly improvement of Value points of the given type.
type Benefit struct {
	Type  BenefitType `json:"type" msgpack:"type"`
	Value float64     `json:"value" msgpack:"value"`
}

// Investment is an office or facility upgrade evaluated by ROI.
type Investment struct {
	Name        string    `json:"name" msgpack:"name"`
	Cost        int64     `json:"cost" msgpack:"cost"`
	MonthlyCost int64     `json:"monthly_cost" msgpack:"monthly_cost"`
	Benefits    []Benefit `json:"benefits" msgpack:"benefits"`
}
