package ledger

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"AgencyEngine/internal/model"
)

// AddRecurring registers an obligation and returns it with its id assigned.
func (l *Ledger) AddRecurring(ob model.RecurringObligation) (model.RecurringObligation, error) {
	if ob.Amount <= 0 {
		return ob, model.ErrInvalidAmount
	}
	if !ob.Frequency.Valid() {
		return ob, fmt.Errorf("unknown frequency %q", ob.Frequency)
	}
	if ob.Type != model.Income && ob.Type != model.Expense {
		return ob, fmt.Errorf("unknown transaction type %q", ob.Type)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if ob.ID == "" {
		ob.ID = l.ids.Next("recurring")
	}
	if ob.NextDueDate.IsZero() {
		today := l.clock.Today()
		if ob.AnchorDay <= 0 {
			ob.AnchorDay = today.Day()
		}
		ob.NextDueDate = ob.Frequency.Next(today, ob.AnchorDay)
	}
	if ob.AnchorDay <= 0 {
		ob.AnchorDay = ob.NextDueDate.Day()
	}
	l.state.Recurring = append(l.state.Recurring, ob)
	l.recomputeMonthly()
	return ob, nil
}

// RemoveRecurring deletes an obligation.
func (l *Ledger) RemoveRecurring(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.state.Recurring, func(o model.RecurringObligation) bool { return o.ID == id })
	if i < 0 {
		return model.NotFoundf("recurring obligation", id)
	}
	l.state.Recurring = slices.Delete(l.state.Recurring, i, i+1)
	l.recomputeMonthly()
	return nil
}

// Recurring returns a copy of the registered obligations.
func (l *Ledger) Recurring() []model.RecurringObligation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.RecurringObligation(nil), l.state.Recurring...)
}

// ProcessRecurring fires every automatic obligation due on or before today,
// catching up missed periods. An expense the treasury cannot cover is flagged
// unpaid, keeps its due date and is retried on the next sweep.
func (l *Ledger) ProcessRecurring(today time.Time) (fired int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.state.Recurring {
		ob := &l.state.Recurring[i]
		if !ob.IsAutomatic {
			continue
		}
		if ob.AnchorDay <= 0 {
			ob.AnchorDay = ob.NextDueDate.Day()
		}
		for !ob.NextDueDate.After(today) {
			desc := fmt.Sprintf("%s (%s)", ob.Name, ob.Frequency)
			if _, err := l.record(ob.Type, ob.Amount, ob.Category, desc); err != nil {
				if !ob.Unpaid && errors.Is(err, model.ErrInsufficientFunds) {
					l.warn(ob.Category, ob.Amount, fmt.Sprintf("recurring %q unpaid: %v", ob.Name, err))
				}
				ob.Unpaid = true
				break
			}
			ob.Unpaid = false
			ob.NextDueDate = ob.Frequency.Next(ob.NextDueDate, ob.AnchorDay)
			fired++
		}
	}
	return fired
}

// recomputeMonthly must be called with mu held.
func (l *Ledger) recomputeMonthly() {
	var in, out int64
	for _, ob := range l.state.Recurring {
		m := ob.Frequency.PerMonth(ob.Amount)
		if ob.Type == model.Income {
			in += m
		} else {
			out += m
		}
	}
	l.state.Treasury.MonthlyIncome = in
	l.state.Treasury.MonthlyExpenses = out
}
