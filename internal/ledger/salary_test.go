package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgencyEngine/internal/model"
)

func TestMonthlySalary(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{level: 0, want: 3000},
		{level: 1, want: 3000},
		{level: 2, want: 4500},
		{level: 3, want: 6750},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MonthlySalary(DefaultConfig, tc.level), "level %d", tc.level)
	}
}

func TestPayMonthlySalaries_PaysTotalAtomically(t *testing.T) {
	l, st, _, _ := newLedger(t, 100_000)
	scouts := []model.Scout{{ID: "a", Level: 1}, {ID: "b", Level: 2}}

	p, err := l.PayMonthlySalaries(scouts)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), p.Total)
	assert.Equal(t, map[string]int64{"a": 3000, "b": 4500}, p.Breakdown)
	assert.Equal(t, int64(92_500), l.Balance())
	assert.Len(t, st.Transactions, 1)
	assert.Len(t, st.SalaryPayments, 1)
}

func TestPayMonthlySalaries_NoPartialPayment(t *testing.T) {
	l, st, _, _ := newLedger(t, 5000)
	scouts := []model.Scout{{ID: "a", Level: 1}, {ID: "b", Level: 2}}

	_, err := l.PayMonthlySalaries(scouts)
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Equal(t, int64(5000), l.Balance())
	assert.Empty(t, st.Transactions)
	assert.Equal(t, int64(7500), st.SalaryArrears)
	assert.Len(t, st.Warnings, 1)

	// next cycle retries with arrears included
	_, err = l.Credit(20_000, "sponsorship", "")
	require.NoError(t, err)
	p, err := l.PayMonthlySalaries(scouts)
	require.NoError(t, err)
	assert.Equal(t, int64(15_000), p.Total)
	assert.Equal(t, int64(7500), p.Breakdown["arrears"])
	assert.Zero(t, st.SalaryArrears)
}

func TestPayMonthlySalaries_NoScouts(t *testing.T) {
	l, st, _, _ := newLedger(t, 10)
	p, err := l.PayMonthlySalaries(nil)
	require.NoError(t, err)
	assert.Zero(t, p.Total)
	assert.Empty(t, st.Transactions)
}
