package repository

import (
	"sync"

	"github.com/baharkarakas/payledger/internal/models"
)

// Handle couples an account with its exclusive lock. All mutation of an
// account, and of the journal entries belonging to its client, happens
// between Lock and Unlock. Lock is the only way to reach the account.
type Handle struct {
	mu   sync.Mutex
	acct *models.Account
}

func NewHandle(a *models.Account) *Handle { return &Handle{acct: a} }

func (h *Handle) Lock() *models.Account { h.mu.Lock(); return h.acct }
func (h *Handle) Unlock()               { h.mu.Unlock() }

// Accounts is the per-client account registry. GetOrCreate must return
// exactly one Handle per client id even under concurrent first touch.
type Accounts interface {
	GetOrCreate(clientID uint16) *Handle
	Get(clientID uint16) (*Handle, bool)
	// Snapshot returns the state of every known account, ascending by
	// client id. Consistent only once ingestion has completed.
	Snapshot() []models.AccountState
	Len() int
}

// Journal is the append-only store of settled deposits and withdrawals.
// Entries are never deleted; dispute lifecycle mutation goes through the
// account operations while the owning client's Handle is held.
type Journal interface {
	// Record inserts a clean entry, failing with
	// models.ErrDuplicateTransaction when the tx id already exists.
	Record(e *models.Entry) error
	// Lookup returns the entry for txID or models.ErrUnknownTransaction.
	Lookup(txID uint32) (*models.Entry, error)
}
