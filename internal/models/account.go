package models

import (
	"fmt"

	"github.com/baharkarakas/payledger/internal/money"
)

// Account holds the per-client balance state. Balances are unexported so
// every mutation goes through the transition rules below; callers are
// expected to hold the client's lock (see repository.Handle) while
// calling any of these methods.
type Account struct {
	clientID  uint16
	available money.Amount
	held      money.Amount
	locked    bool
}

func NewAccount(clientID uint16) *Account {
	return &Account{clientID: clientID}
}

func (a *Account) ClientID() uint16        { return a.clientID }
func (a *Account) Available() money.Amount { return a.available }
func (a *Account) Held() money.Amount      { return a.held }
func (a *Account) Total() money.Amount     { return a.available.Add(a.held) }
func (a *Account) Locked() bool            { return a.locked }

// Deposit credits the available balance.
func (a *Account) Deposit(amount money.Amount) error {
	if a.locked {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.clientID)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	a.available = a.available.Add(amount)
	return nil
}

// Withdraw debits the available balance, leaving the account untouched
// when funds are insufficient.
func (a *Account) Withdraw(amount money.Amount) error {
	if a.locked {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.clientID)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amount)
	}
	if a.available < amount {
		return fmt.Errorf("%w: available %s, requested %s", ErrInsufficientFunds, a.available, amount)
	}
	a.available = a.available.Sub(amount)
	return nil
}

// Dispute freezes the entry's amount. Disputing a deposit moves funds
// from available to held and may drive available negative: when the
// deposited funds were already withdrawn the claim must still be held.
// Disputing a withdrawal only raises held; available was already debited
// at withdrawal time and debiting it again would double-count the loss.
func (a *Account) Dispute(e *Entry) error {
	if a.locked {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.clientID)
	}
	if err := e.Transition(StateDisputed); err != nil {
		return err
	}
	if e.Kind == KindDeposit {
		a.available = a.available.Sub(e.Amount)
	}
	a.held = a.held.Add(e.Amount)
	return nil
}

// Resolve releases a disputed entry, reversing the dispute's balance
// effect exactly.
func (a *Account) Resolve(e *Entry) error {
	if a.locked {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.clientID)
	}
	if err := e.Transition(StateResolved); err != nil {
		return err
	}
	if e.Kind == KindDeposit {
		a.available = a.available.Add(e.Amount)
	}
	a.held = a.held.Sub(e.Amount)
	return nil
}

// Chargeback withdraws the held claim permanently and locks the account.
func (a *Account) Chargeback(e *Entry) error {
	if a.locked {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.clientID)
	}
	if err := e.Transition(StateChargedBack); err != nil {
		return err
	}
	a.held = a.held.Sub(e.Amount)
	a.locked = true
	return nil
}

// AccountState is the read-only view handed to the exporter and the
// report API.
type AccountState struct {
	ClientID  uint16       `json:"client_id"`
	Available money.Amount `json:"available"`
	Held      money.Amount `json:"held"`
	Total     money.Amount `json:"total"`
	Locked    bool         `json:"locked"`
}

func (a *Account) State() AccountState {
	return AccountState{
		ClientID:  a.clientID,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.locked,
	}
}
