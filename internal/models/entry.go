package models

import (
	"fmt"

	"github.com/baharkarakas/payledger/internal/money"
)

type DisputeState string

const (
	StateClean       DisputeState = "clean"
	StateDisputed    DisputeState = "disputed"
	StateResolved    DisputeState = "resolved"
	StateChargedBack DisputeState = "charged_back"
)

// canBecome encodes the legal lifecycle: clean -> disputed -> resolved
// or charged_back. Resolved and charged_back are terminal.
func (s DisputeState) canBecome(to DisputeState) bool {
	switch s {
	case StateClean:
		return to == StateDisputed
	case StateDisputed:
		return to == StateResolved || to == StateChargedBack
	default:
		return false
	}
}

// Entry is the journal's canonical record of a settled deposit or
// withdrawal. Entries are never deleted; a charged-back entry stays in
// the journal so repeated dispute-class operations can be rejected.
type Entry struct {
	TxID     uint32       `json:"tx_id"`
	ClientID uint16       `json:"client_id"`
	Amount   money.Amount `json:"amount"`
	Kind     Kind         `json:"kind"`
	State    DisputeState `json:"dispute_state"`
}

func NewEntry(rec Record) *Entry {
	return &Entry{
		TxID:     rec.TxID,
		ClientID: rec.ClientID,
		Amount:   rec.Amount,
		Kind:     rec.Kind,
		State:    StateClean,
	}
}

// Transition moves the entry to the given state, rejecting anything the
// lifecycle does not allow.
func (e *Entry) Transition(to DisputeState) error {
	if !e.State.canBecome(to) {
		return fmt.Errorf("%w: tx %d is %s, cannot become %s", ErrInvalidDisputeState, e.TxID, e.State, to)
	}
	e.State = to
	return nil
}
