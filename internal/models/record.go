package models

import (
	"fmt"

	"github.com/baharkarakas/payledger/internal/money"
)

type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// Monetary returns true for kinds that carry their own amount and tx id.
// Dispute-class kinds reference a prior monetary transaction instead.
func (k Kind) Monetary() bool {
	return k == KindDeposit || k == KindWithdrawal
}

func (k Kind) valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return true
	}
	return false
}

// Record is one incoming operation. It is constructed once at ingestion
// and never mutated. Amount is zero for dispute-class kinds.
type Record struct {
	Kind     Kind         `json:"kind"`
	ClientID uint16       `json:"client_id"`
	TxID     uint32       `json:"tx_id"`
	Amount   money.Amount `json:"amount,omitempty"`
}

// NewRecord validates the shape of an operation and builds the Record.
// amount must be present (non-nil) and positive for deposit/withdrawal,
// and absent for dispute-class kinds.
func NewRecord(kind Kind, clientID uint16, txID uint32, amount *money.Amount) (Record, error) {
	if !kind.valid() {
		return Record{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, string(kind))
	}
	if kind.Monetary() {
		if amount == nil {
			return Record{}, fmt.Errorf("%w: %s without amount", ErrMalformedRecord, kind)
		}
		rec := Record{Kind: kind, ClientID: clientID, TxID: txID, Amount: *amount}
		if err := rec.Validate(); err != nil {
			return Record{}, err
		}
		return rec, nil
	}
	if amount != nil {
		return Record{}, fmt.Errorf("%w: %s carries an amount", ErrMalformedRecord, kind)
	}
	return Record{Kind: kind, ClientID: clientID, TxID: txID}, nil
}

// Validate rechecks the shape invariants on an already-built Record.
func (r Record) Validate() error {
	if !r.Kind.valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, string(r.Kind))
	}
	if r.Kind.Monetary() {
		if !r.Amount.IsPositive() {
			return fmt.Errorf("%w: %s of %s", ErrInvalidAmount, r.Kind, r.Amount)
		}
		return nil
	}
	if r.Amount != 0 {
		return fmt.Errorf("%w: %s carries an amount", ErrMalformedRecord, r.Kind)
	}
	return nil
}
