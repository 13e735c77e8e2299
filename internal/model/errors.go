package model

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrNotFound             = errors.New("not found")
	ErrScoutBusy            = errors.New("scout already on a mission")
	ErrQuotaExceeded        = errors.New("scout quota exceeded for office level")
	ErrInvalidTransition    = errors.New("invalid offer state transition")
	ErrTransferWindowClosed = errors.New("transfer window is closed")
	ErrOfferTooLow          = errors.New("offer below minimum acceptable amount")
	ErrDuplicateOffer       = errors.New("active offer already exists for player and team")
	ErrInvalidAmount        = errors.New("amount must be positive")
)

// InsufficientFundsError carries the shortfall of a rejected spend.
type InsufficientFundsError struct {
	Needed    int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Needed, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// InvalidTransitionError reports an action attempted on an offer in the wrong state.
type InvalidTransitionError struct {
	OfferID string
	From    OfferStatus
	Action  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s offer %s in status %s", e.Action, e.OfferID, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// NotFoundf wraps ErrNotFound with the kind and id that were missing.
func NotFoundf(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
