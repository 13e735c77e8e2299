package ledger

import (
	"fmt"
	"math"

	"AgencyEngine/internal/model"
)

const (
	CategorySalaries = "scout_salaries"
	arrearsKey       = "arrears"
)

// CalculateMonthlySalary returns baseSalary × levelMultiplier^(level-1).
func (l *Ledger) CalculateMonthlySalary(s model.Scout) int64 {
	return MonthlySalary(l.cfg, s.Level)
}

// MonthlySalary is the salary formula without a ledger instance.
func MonthlySalary(cfg Config, level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(math.Round(float64(cfg.BaseSalary) * math.Pow(cfg.LevelMultiplier, float64(level-1))))
}

// PayMonthlySalaries pays every scout plus any arrears in one transaction.
// If the treasury cannot cover the total nothing is paid, the total is
// carried as arrears and a warning is recorded.
func (l *Ledger) PayMonthlySalaries(scouts []model.Scout) (model.SalaryPayment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	breakdown := make(map[string]int64, len(scouts)+1)
	var total int64
	for _, s := range scouts {
		amt := l.CalculateMonthlySalary(s)
		breakdown[s.ID] = amt
		total += amt
	}
	if l.state.SalaryArrears > 0 {
		breakdown[arrearsKey] = l.state.SalaryArrears
		total += l.state.SalaryArrears
	}
	if total == 0 {
		return model.SalaryPayment{Date: l.clock.Today(), Breakdown: breakdown}, nil
	}

	desc := fmt.Sprintf("monthly salaries for %d scouts", len(scouts))
	tx, err := l.record(model.Expense, total, CategorySalaries, desc)
	if err != nil {
		l.state.SalaryArrears = total
		l.warn(CategorySalaries, total, fmt.Sprintf("salary payment deferred: %v", err))
		return model.SalaryPayment{}, fmt.Errorf("pay salaries: %w", err)
	}
	l.state.SalaryArrears = 0

	payment := model.SalaryPayment{
		TransactionID: tx.ID,
		Date:          tx.Date,
		Total:         total,
		Breakdown:     breakdown,
	}
	l.state.SalaryPayments = append(l.state.SalaryPayments, payment)
	l.log.Info().Int64("total", total).Int("scouts", len(scouts)).Msg("Salaries paid")
	return payment, nil
}
