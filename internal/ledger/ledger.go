// Package ledger owns the treasury: every spend and credit in the game goes
// through it, so the balance can never be driven below zero.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/model"
)

const module = "ledger"

// Clock supplies the simulated date used to stamp transactions.
type Clock interface {
	Today() time.Time
}

// Config holds payroll parameters.
type Config struct {
	BaseSalary      int64
	LevelMultiplier float64
}

// DefaultConfig mirrors the shipped config.yaml.
var DefaultConfig = Config{BaseSalary: 3000, LevelMultiplier: 1.5}

// Ledger is the finance service over a LedgerState slice.
type Ledger struct {
	mu    sync.Mutex
	state *model.LedgerState
	ids   *ids.Sequence
	clock Clock
	cfg   Config
	pub   events.Publisher
	log   zerolog.Logger
}

// New wraps state. pub may be nil.
func New(state *model.LedgerState, seq *ids.Sequence, clock Clock, cfg Config, pub events.Publisher, log zerolog.Logger) *Ledger {
	if pub == nil {
		pub = events.Nop{}
	}
	if cfg.LevelMultiplier <= 0 {
		cfg.LevelMultiplier = DefaultConfig.LevelMultiplier
	}
	return &Ledger{
		state: state,
		ids:   seq,
		clock: clock,
		cfg:   cfg,
		pub:   pub,
		log:   log.With().Str("service", module).Logger(),
	}
}

// Balance returns the current treasury balance.
func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Treasury.Balance
}

// Treasury returns a copy of the treasury.
func (l *Ledger) Treasury() model.Treasury {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Treasury
}

// Transactions returns a copy of the history.
func (l *Ledger) Transactions() []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Transaction(nil), l.state.Transactions...)
}

// Warnings returns a copy of the recorded sweep failures.
func (l *Ledger) Warnings() []model.LedgerWarning {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.LedgerWarning(nil), l.state.Warnings...)
}

// RecordTransaction appends an entry and moves the balance. An expense larger
// than the balance is refused with InsufficientFundsError and changes nothing.
func (l *Ledger) RecordTransaction(typ model.TransactionType, amount int64, category, description string) (model.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.record(typ, amount, category, description)
}

// Spend deducts amount if the treasury covers it. Zero is a no-op.
func (l *Ledger) Spend(amount int64, category, description string) (model.Transaction, error) {
	if amount == 0 {
		return model.Transaction{}, nil
	}
	return l.RecordTransaction(model.Expense, amount, category, description)
}

// Credit adds amount to the treasury. Zero is a no-op.
func (l *Ledger) Credit(amount int64, category, description string) (model.Transaction, error) {
	if amount == 0 {
		return model.Transaction{}, nil
	}
	return l.RecordTransaction(model.Income, amount, category, description)
}

// record must be called with mu held.
func (l *Ledger) record(typ model.TransactionType, amount int64, category, description string) (model.Transaction, error) {
	if amount <= 0 {
		return model.Transaction{}, fmt.Errorf("%s %d: %w", category, amount, model.ErrInvalidAmount)
	}
	t := &l.state.Treasury
	switch typ {
	case model.Income:
		t.Balance += amount
	case model.Expense:
		if amount > t.Balance {
			return model.Transaction{}, &model.InsufficientFundsError{Needed: amount, Available: t.Balance}
		}
		t.Balance -= amount
	default:
		return model.Transaction{}, fmt.Errorf("unknown transaction type %q", typ)
	}

	today := l.clock.Today()
	tx := model.Transaction{
		ID:          l.ids.Next("tx"),
		Type:        typ,
		Category:    category,
		Amount:      amount,
		Date:        today,
		Description: description,
	}
	t.LastUpdate = today
	l.state.Transactions = append(l.state.Transactions, tx)

	l.log.Debug().
		Str("type", string(typ)).
		Str("category", category).
		Int64("amount", amount).
		Int64("balance", t.Balance).
		Msg("Transaction recorded")
	l.pub.Publish(today, module, &events.TransactionRecordedData{Transaction: tx, Balance: t.Balance})
	return tx, nil
}

// warn must be called with mu held.
func (l *Ledger) warn(category string, amount int64, msg string) {
	w := model.LedgerWarning{Date: l.clock.Today(), Category: category, Amount: amount, Message: msg}
	l.state.Warnings = append(l.state.Warnings, w)
	l.log.Warn().Str("category", category).Int64("amount", amount).Msg(msg)
	l.pub.Publish(w.Date, module, &events.LedgerWarningData{Warning: w})
}
