package services

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/baharkarakas/payledger/internal/models"
	"github.com/baharkarakas/payledger/internal/money"
	"github.com/baharkarakas/payledger/internal/repository/memory"
)

func newService() (*LedgerService, *memory.Repositories) {
	repos := memory.NewRepositories()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLedgerService(repos.Accounts, repos.Journal, log), repos
}

func mustRecord(t *testing.T, kind models.Kind, client uint16, tx uint32, amount string) models.Record {
	t.Helper()
	var amt *money.Amount
	if amount != "" {
		a := money.MustParse(amount)
		amt = &a
	}
	rec, err := models.NewRecord(kind, client, tx, amt)
	if err != nil {
		t.Fatalf("NewRecord(%s): %v", kind, err)
	}
	return rec
}

func apply(t *testing.T, s *LedgerService, kind models.Kind, client uint16, tx uint32, amount string) {
	t.Helper()
	if err := s.Apply(mustRecord(t, kind, client, tx, amount)); err != nil {
		t.Fatalf("apply %s client=%d tx=%d: %v", kind, client, tx, err)
	}
}

func state(t *testing.T, s *LedgerService, client uint16) models.AccountState {
	t.Helper()
	st, ok := s.Account(client)
	if !ok {
		t.Fatalf("account %d not found", client)
	}
	return st
}

func TestDepositsAccumulateExactly(t *testing.T) {
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "0.1")
	apply(t, s, models.KindDeposit, 1, 2, "0.2")
	apply(t, s, models.KindDeposit, 1, 3, "0.3")

	st := state(t, s, 1)
	if st.Available != money.MustParse("0.6") {
		t.Errorf("available = %s, want 0.6", st.Available)
	}
}

func TestDuplicateDepositRejected(t *testing.T) {
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "5")

	err := s.Apply(mustRecord(t, models.KindDeposit, 2, 1, "5"))
	if !errors.Is(err, models.ErrDuplicateTransaction) {
		t.Fatalf("err = %v, want ErrDuplicateTransaction", err)
	}
	if _, ok := s.Account(2); !ok {
		t.Fatal("account 2 should exist (created on first reference)")
	}
	if st := state(t, s, 2); st.Available != 0 {
		t.Errorf("client 2 available = %s, want 0", st.Available)
	}
}

func TestRejectedWithdrawalLeavesNoJournalEntry(t *testing.T) {
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "3")

	err := s.Apply(mustRecord(t, models.KindWithdrawal, 1, 2, "10"))
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if _, err := s.Transaction(2); !errors.Is(err, models.ErrUnknownTransaction) {
		t.Errorf("journal entry exists for rejected withdrawal: err = %v", err)
	}
	if st := state(t, s, 1); st.Available != money.MustParse("3") {
		t.Errorf("available = %s, want 3", st.Available)
	}
}

func TestWithdrawalDuplicateTxRejectedBeforeDebit(t *testing.T) {
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "10")

	err := s.Apply(mustRecord(t, models.KindWithdrawal, 1, 1, "5"))
	if !errors.Is(err, models.ErrDuplicateTransaction) {
		t.Fatalf("err = %v, want ErrDuplicateTransaction", err)
	}
	if st := state(t, s, 1); st.Available != money.MustParse("10") {
		t.Errorf("available = %s, want 10", st.Available)
	}
}

func TestDisputeWithdrawalScenario(t *testing.T) {
	// deposit 10, withdraw 5, dispute the withdrawal:
	// available 5, held 5, total 10.
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "10.0")
	apply(t, s, models.KindWithdrawal, 1, 2, "5.0")
	apply(t, s, models.KindDispute, 1, 2, "")

	st := state(t, s, 1)
	if st.Available != money.MustParse("5") || st.Held != money.MustParse("5") || st.Total != money.MustParse("10") {
		t.Errorf("state = %+v, want available=5 held=5 total=10", st)
	}
}

func TestChargebackScenario(t *testing.T) {
	// deposit 20, dispute, chargeback: zeroed and locked.
	s, _ := newService()
	apply(t, s, models.KindDeposit, 2, 3, "20.0")
	apply(t, s, models.KindDispute, 2, 3, "")
	apply(t, s, models.KindChargeback, 2, 3, "")

	st := state(t, s, 2)
	if st.Available != 0 || st.Held != 0 || st.Total != 0 {
		t.Errorf("state = %+v, want all zero", st)
	}
	if !st.Locked {
		t.Error("account not locked")
	}

	err := s.Apply(mustRecord(t, models.KindDeposit, 2, 4, "1"))
	if !errors.Is(err, models.ErrAccountLocked) {
		t.Errorf("deposit after chargeback: err = %v, want ErrAccountLocked", err)
	}
	if _, err := s.Transaction(4); !errors.Is(err, models.ErrUnknownTransaction) {
		t.Errorf("refused deposit reached the journal: err = %v", err)
	}
}

func TestDisputeUnknownTransaction(t *testing.T) {
	s, _ := newService()

	err := s.Apply(mustRecord(t, models.KindDispute, 3, 99, ""))
	if !errors.Is(err, models.ErrUnknownTransaction) {
		t.Fatalf("err = %v, want ErrUnknownTransaction", err)
	}
	if st := state(t, s, 3); st.Available != 0 || st.Held != 0 {
		t.Errorf("client 3 mutated: %+v", st)
	}
}

func TestCrossClientDisputeReadsAsUnknown(t *testing.T) {
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "10")

	err := s.Apply(mustRecord(t, models.KindDispute, 2, 1, ""))
	if !errors.Is(err, models.ErrUnknownTransaction) {
		t.Fatalf("err = %v, want ErrUnknownTransaction", err)
	}
	if st := state(t, s, 1); st.Held != 0 {
		t.Errorf("client 1 held = %s, want 0", st.Held)
	}
}

func TestResolveSettlesDispute(t *testing.T) {
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "8")
	apply(t, s, models.KindDispute, 1, 1, "")
	apply(t, s, models.KindResolve, 1, 1, "")

	st := state(t, s, 1)
	if st.Available != money.MustParse("8") || st.Held != 0 {
		t.Errorf("state = %+v, want available=8 held=0", st)
	}

	// resolved entries are terminal
	for _, k := range []models.Kind{models.KindDispute, models.KindResolve, models.KindChargeback} {
		if err := s.Apply(mustRecord(t, k, 1, 1, "")); !errors.Is(err, models.ErrInvalidDisputeState) {
			t.Errorf("%s on resolved entry: err = %v", k, err)
		}
	}
	if got := state(t, s, 1); got != st {
		t.Errorf("rejected operations mutated the account: %+v -> %+v", st, got)
	}
}

func TestTransactionEntryView(t *testing.T) {
	s, _ := newService()
	apply(t, s, models.KindDeposit, 1, 1, "8")
	apply(t, s, models.KindDispute, 1, 1, "")

	e, err := s.Transaction(1)
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if e.State != models.StateDisputed || e.Kind != models.KindDeposit || e.Amount != money.MustParse("8") {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestConcurrentClientsMatchSequentialResult(t *testing.T) {
	// Interleaving records of different clients must produce the same
	// final state as running each client's stream alone.
	mkStream := func(client uint16, base uint32) []models.Record {
		amt := func(s string) *money.Amount { a := money.MustParse(s); return &a }
		var recs []models.Record
		for i := uint32(0); i < 200; i++ {
			r, _ := models.NewRecord(models.KindDeposit, client, base+i, amt("1.25"))
			recs = append(recs, r)
		}
		w, _ := models.NewRecord(models.KindWithdrawal, client, base+200, amt("50"))
		d, _ := models.NewRecord(models.KindDispute, client, base+200, nil)
		return append(recs, w, d)
	}

	sequential, _ := newService()
	for client := uint16(1); client <= 8; client++ {
		for _, rec := range mkStream(client, uint32(client)*1000) {
			_ = sequential.Apply(rec)
		}
	}

	concurrent, _ := newService()
	var wg sync.WaitGroup
	for client := uint16(1); client <= 8; client++ {
		wg.Add(1)
		go func(client uint16) {
			defer wg.Done()
			for _, rec := range mkStream(client, uint32(client)*1000) {
				_ = concurrent.Apply(rec)
			}
		}(client)
	}
	wg.Wait()

	want := sequential.Snapshot()
	got := concurrent.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("snapshot len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("client %d: got %+v, want %+v", want[i].ClientID, got[i], want[i])
		}
	}
	// 200 deposits of 1.25 = 250; withdraw 50, dispute it back into held
	if got[0].Available != money.MustParse("200") || got[0].Held != money.MustParse("50") {
		t.Errorf("client 1 state = %+v, want available=200 held=50", got[0])
	}
}
