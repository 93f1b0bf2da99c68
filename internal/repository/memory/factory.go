package memory

import "github.com/baharkarakas/payledger/internal/repository"

type Repositories struct {
	Accounts repository.Accounts
	Journal  repository.Journal
}

func NewRepositories() *Repositories {
	return &Repositories{
		Accounts: NewAccountsRepo(),
		Journal:  NewJournalRepo(),
	}
}
