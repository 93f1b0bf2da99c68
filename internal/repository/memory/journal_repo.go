package memory

import (
	"fmt"
	"sync"

	"github.com/baharkarakas/payledger/internal/models"
)

// JournalRepo guards map structure only; the entries themselves are
// mutated under the owning client's account lock.
type JournalRepo struct {
	mu      sync.RWMutex
	entries map[uint32]*models.Entry
}

func NewJournalRepo() *JournalRepo {
	return &JournalRepo{entries: make(map[uint32]*models.Entry)}
}

func (r *JournalRepo) Record(e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.TxID]; ok {
		return fmt.Errorf("%w: tx %d", models.ErrDuplicateTransaction, e.TxID)
	}
	r.entries[e.TxID] = e
	return nil
}

func (r *JournalRepo) Lookup(txID uint32) (*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[txID]
	if !ok {
		return nil, fmt.Errorf("%w: tx %d", models.ErrUnknownTransaction, txID)
	}
	return e, nil
}
