package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/payledger/internal/metrics"
	"github.com/baharkarakas/payledger/internal/models"
	"github.com/baharkarakas/payledger/internal/repository"
)

// LedgerService applies transaction records to accounts and the journal.
// Apply is safe to call from any number of goroutines; operations on the
// same client serialize on the client's account lock, operations on
// different clients do not contend.
type LedgerService struct {
	accounts repository.Accounts
	journal  repository.Journal
	log      *slog.Logger
}

func NewLedgerService(accounts repository.Accounts, journal repository.Journal, log *slog.Logger) *LedgerService {
	return &LedgerService{accounts: accounts, journal: journal, log: log}
}

// Apply routes one record to the addressed account. Failures are
// per-record: the error is returned for reporting and the account is
// left in the state it had before the call.
func (s *LedgerService) Apply(rec models.Record) error {
	if err := s.apply(rec); err != nil {
		metrics.RecordFailures.WithLabelValues(failureReason(err)).Inc()
		s.log.Warn("record rejected",
			"kind", string(rec.Kind), "client", rec.ClientID, "tx", rec.TxID, "err", err)
		return err
	}
	metrics.RecordsProcessed.WithLabelValues(string(rec.Kind)).Inc()
	return nil
}

func (s *LedgerService) apply(rec models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	h := s.accounts.GetOrCreate(rec.ClientID)
	metrics.AccountsKnown.Set(float64(s.accounts.Len()))

	switch rec.Kind {
	case models.KindDeposit:
		return s.applyDeposit(rec, h)
	case models.KindWithdrawal:
		return s.applyWithdrawal(rec, h)
	default:
		return s.applyDisputeClass(rec, h)
	}
}

func (s *LedgerService) applyDeposit(rec models.Record, h *repository.Handle) error {
	acct := h.Lock()
	defer h.Unlock()

	// checked before recording so a refused deposit never reaches the journal
	if acct.Locked() {
		return fmt.Errorf("%w: client %d", models.ErrAccountLocked, rec.ClientID)
	}
	if err := s.journal.Record(models.NewEntry(rec)); err != nil {
		return err
	}
	return acct.Deposit(rec.Amount)
}

func (s *LedgerService) applyWithdrawal(rec models.Record, h *repository.Handle) error {
	acct := h.Lock()
	defer h.Unlock()

	if acct.Locked() {
		return fmt.Errorf("%w: client %d", models.ErrAccountLocked, rec.ClientID)
	}
	// Journal recording is deferred until the balance check passes, so a
	// rejected withdrawal never leaves a dangling entry. The duplicate
	// check still has to come first.
	if _, err := s.journal.Lookup(rec.TxID); err == nil {
		return fmt.Errorf("%w: tx %d", models.ErrDuplicateTransaction, rec.TxID)
	}
	if err := acct.Withdraw(rec.Amount); err != nil {
		return err
	}
	if err := s.journal.Record(models.NewEntry(rec)); err != nil {
		// lost a cross-client race for the same tx id; undo the debit
		_ = acct.Deposit(rec.Amount)
		return err
	}
	return nil
}

func (s *LedgerService) applyDisputeClass(rec models.Record, h *repository.Handle) error {
	acct := h.Lock()
	defer h.Unlock()

	e, err := s.journal.Lookup(rec.TxID)
	if err != nil {
		return err
	}
	// A reference to another client's transaction reads the same as a
	// reference to no transaction at all.
	if e.ClientID != rec.ClientID {
		return fmt.Errorf("%w: tx %d", models.ErrUnknownTransaction, rec.TxID)
	}

	switch rec.Kind {
	case models.KindDispute:
		return acct.Dispute(e)
	case models.KindResolve:
		return acct.Resolve(e)
	case models.KindChargeback:
		if err := acct.Chargeback(e); err != nil {
			return err
		}
		s.log.Info("account locked by chargeback", "client", rec.ClientID, "tx", rec.TxID)
		return nil
	default:
		return fmt.Errorf("%w: unexpected kind %q", models.ErrMalformedRecord, string(rec.Kind))
	}
}

// Snapshot returns the state of all known accounts, ascending by client
// id. The result is consistent only once ingestion has completed.
func (s *LedgerService) Snapshot() []models.AccountState {
	return s.accounts.Snapshot()
}

// Account returns the current state of a single account.
func (s *LedgerService) Account(clientID uint16) (models.AccountState, bool) {
	h, ok := s.accounts.Get(clientID)
	if !ok {
		return models.AccountState{}, false
	}
	acct := h.Lock()
	defer h.Unlock()
	return acct.State(), true
}

// Transaction returns a copy of a journal entry, read under the owning
// client's lock.
func (s *LedgerService) Transaction(txID uint32) (models.Entry, error) {
	e, err := s.journal.Lookup(txID)
	if err != nil {
		return models.Entry{}, err
	}
	h, ok := s.accounts.Get(e.ClientID)
	if !ok {
		// entries are only created after their account exists
		return models.Entry{}, fmt.Errorf("%w: tx %d", models.ErrUnknownTransaction, txID)
	}
	h.Lock()
	defer h.Unlock()
	return *e, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, models.ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, models.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, models.ErrInvalidDisputeState):
		return "invalid_dispute_state"
	case errors.Is(err, models.ErrUnknownTransaction):
		return "unknown_transaction"
	case errors.Is(err, models.ErrDuplicateTransaction):
		return "duplicate_transaction"
	case errors.Is(err, models.ErrMalformedRecord):
		return "malformed_record"
	default:
		return "other"
	}
}
