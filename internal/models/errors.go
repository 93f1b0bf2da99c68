package models

import "errors"

// Per-record failures. All of these are recoverable: the ledger reports
// them and keeps processing, and the addressed account is left exactly
// as it was before the failed operation.
var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrAccountLocked        = errors.New("account is locked")
	ErrInsufficientFunds    = errors.New("insufficient available funds")
	ErrInvalidDisputeState  = errors.New("illegal dispute state transition")
	ErrUnknownTransaction   = errors.New("unknown transaction")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrMalformedRecord      = errors.New("malformed record")
)
