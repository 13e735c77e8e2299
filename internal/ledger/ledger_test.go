package ledger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/model"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Today() time.Time { return c.now }

var day0 = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func newLedger(t *testing.T, balance int64) (*Ledger, *model.LedgerState, *fakeClock, *events.Collector) {
	t.Helper()
	st := &model.LedgerState{Treasury: model.Treasury{Balance: balance}}
	clock := &fakeClock{now: day0}
	bus := events.NewBus(zerolog.Nop())
	col := &events.Collector{}
	bus.Subscribe(col.Handle)
	return New(st, ids.NewSequence(1), clock, DefaultConfig, bus, zerolog.Nop()), st, clock, col
}

func TestRecordTransaction_AdjustsBalance(t *testing.T) {
	l, st, _, col := newLedger(t, 1000)

	tx, err := l.RecordTransaction(model.Income, 500, "sponsorship", "kit deal")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), l.Balance())
	assert.Equal(t, day0, tx.Date)
	assert.NotEmpty(t, tx.ID)

	_, err = l.RecordTransaction(model.Expense, 200, "office", "rent")
	require.NoError(t, err)
	assert.Equal(t, int64(1300), l.Balance())
	assert.Len(t, st.Transactions, 2)
	assert.Len(t, col.OfType(events.TransactionRecorded), 2)
	assert.Equal(t, day0, st.Treasury.LastUpdate)
}

func TestRecordTransaction_RefusesOverdraft(t *testing.T) {
	l, st, _, _ := newLedger(t, 100)

	_, err := l.Spend(101, "office", "too much")
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	var ife *model.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, int64(101), ife.Needed)
	assert.Equal(t, int64(100), ife.Available)

	assert.Equal(t, int64(100), l.Balance())
	assert.Empty(t, st.Transactions)
}

func TestRecordTransaction_RejectsNonPositive(t *testing.T) {
	l, _, _, _ := newLedger(t, 100)
	_, err := l.RecordTransaction(model.Expense, -5, "x", "")
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	tx, err := l.Spend(0, "x", "")
	require.NoError(t, err)
	assert.Empty(t, tx.ID)
}

func TestProcessRecurring_FiresAndAdvances(t *testing.T) {
	l, st, clock, _ := newLedger(t, 10_000)

	_, err := l.AddRecurring(model.RecurringObligation{
		Name: "Office rent", Type: model.Expense, Category: "office",
		Amount: 1000, Frequency: model.Monthly, NextDueDate: day0, IsAutomatic: true,
	})
	require.NoError(t, err)
	_, err = l.AddRecurring(model.RecurringObligation{
		Name: "Manual bill", Type: model.Expense, Category: "misc",
		Amount: 50, Frequency: model.Daily, NextDueDate: day0, IsAutomatic: false,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000+50*30), st.Treasury.MonthlyExpenses)

	fired := l.ProcessRecurring(clock.now)
	assert.Equal(t, 1, fired)
	assert.Equal(t, int64(9000), l.Balance())
	assert.Equal(t, day0.AddDate(0, 1, 0), st.Recurring[0].NextDueDate)

	// nothing due until next month
	assert.Equal(t, 0, l.ProcessRecurring(day0.AddDate(0, 0, 10)))
}

func TestProcessRecurring_CatchesUpMissedPeriods(t *testing.T) {
	l, _, _, _ := newLedger(t, 0)
	_, err := l.AddRecurring(model.RecurringObligation{
		Name: "Image rights", Type: model.Income, Category: "royalties",
		Amount: 100, Frequency: model.Weekly, NextDueDate: day0, IsAutomatic: true,
	})
	require.NoError(t, err)

	fired := l.ProcessRecurring(day0.AddDate(0, 0, 14))
	assert.Equal(t, 3, fired)
	assert.Equal(t, int64(300), l.Balance())
}

func TestProcessRecurring_FlagsUnpaidAndRetries(t *testing.T) {
	l, st, _, col := newLedger(t, 100)
	_, err := l.AddRecurring(model.RecurringObligation{
		Name: "Rent", Type: model.Expense, Category: "office",
		Amount: 500, Frequency: model.Monthly, NextDueDate: day0, IsAutomatic: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, l.ProcessRecurring(day0))
	assert.True(t, st.Recurring[0].Unpaid)
	assert.Equal(t, day0, st.Recurring[0].NextDueDate)
	assert.Len(t, st.Warnings, 1)
	assert.Len(t, col.OfType(events.LedgerWarningRaised), 1)

	// second failure does not duplicate the warning
	l.ProcessRecurring(day0.AddDate(0, 0, 1))
	assert.Len(t, st.Warnings, 1)

	_, err = l.Credit(1000, "sponsorship", "")
	require.NoError(t, err)
	assert.Equal(t, 1, l.ProcessRecurring(day0.AddDate(0, 0, 2)))
	assert.False(t, st.Recurring[0].Unpaid)
	assert.Equal(t, int64(600), l.Balance())
}

func TestProcessRecurring_MonthEndStaysAtMonthEnd(t *testing.T) {
	l, st, _, _ := newLedger(t, 10_000)
	jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	_, err := l.AddRecurring(model.RecurringObligation{
		Name: "Storage", Type: model.Expense, Category: "office",
		Amount: 100, Frequency: model.Monthly, NextDueDate: jan31, IsAutomatic: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 31, st.Recurring[0].AnchorDay)

	l.ProcessRecurring(jan31)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), st.Recurring[0].NextDueDate)
	l.ProcessRecurring(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), st.Recurring[0].NextDueDate)
	l.ProcessRecurring(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), st.Recurring[0].NextDueDate)
	assert.Equal(t, int64(9_700), l.Balance())
}

func TestRemoveRecurring(t *testing.T) {
	l, st, _, _ := newLedger(t, 0)
	ob, err := l.AddRecurring(model.RecurringObligation{
		Name: "Fee", Type: model.Income, Category: "x", Amount: 10, Frequency: model.Yearly,
	})
	require.NoError(t, err)
	assert.Equal(t, day0.AddDate(1, 0, 0), ob.NextDueDate)

	require.NoError(t, l.RemoveRecurring(ob.ID))
	assert.Empty(t, st.Recurring)
	assert.ErrorIs(t, l.RemoveRecurring(ob.ID), model.ErrNotFound)
}

func TestAddRecurring_Validates(t *testing.T) {
	l, _, _, _ := newLedger(t, 0)
	_, err := l.AddRecurring(model.RecurringObligation{Type: model.Income, Amount: 10, Frequency: "HOURLY"})
	assert.Error(t, err)
	_, err = l.AddRecurring(model.RecurringObligation{Type: model.Income, Amount: 0, Frequency: model.Daily})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}
