package memory

import (
	"sort"
	"sync"

	"github.com/baharkarakas/payledger/internal/models"
	"github.com/baharkarakas/payledger/internal/repository"
)

type AccountsRepo struct {
	mu       sync.RWMutex
	accounts map[uint16]*repository.Handle
}

func NewAccountsRepo() *AccountsRepo {
	return &AccountsRepo{accounts: make(map[uint16]*repository.Handle)}
}

func (r *AccountsRepo) GetOrCreate(clientID uint16) *repository.Handle {
	r.mu.RLock()
	h, ok := r.accounts[clientID]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another goroutine may have created it between the two locks
	if h, ok := r.accounts[clientID]; ok {
		return h
	}
	h = repository.NewHandle(models.NewAccount(clientID))
	r.accounts[clientID] = h
	return h
}

func (r *AccountsRepo) Get(clientID uint16) (*repository.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.accounts[clientID]
	return h, ok
}

func (r *AccountsRepo) Snapshot() []models.AccountState {
	r.mu.RLock()
	handles := make([]*repository.Handle, 0, len(r.accounts))
	for _, h := range r.accounts {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	states := make([]models.AccountState, 0, len(handles))
	for _, h := range handles {
		acct := h.Lock()
		states = append(states, acct.State())
		h.Unlock()
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ClientID < states[j].ClientID })
	return states
}

func (r *AccountsRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}
