// Package common defines shared constants and sentinel errors used across
// the ledger server. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrVersionConflict  = errors.New("version conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation / operation-specific errors.
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMeetingFull       = errors.New("meeting full")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
)

// InsufficientFundsError wraps ErrInsufficientFunds and carries the amount
// the account is short by, for display ("need N more").
type InsufficientFundsError struct {
	Shortfall decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %s more", e.Shortfall.String())
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// NewInsufficientFundsError builds the error from a balance and the price
// that could not be covered.
func NewInsufficientFundsError(balance, price decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{Shortfall: price.Sub(balance)}
}
