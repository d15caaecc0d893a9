package vault

import (
	"context"
	"slices"
	"sync"
)

// StorageKey is the key the account list is stored under.
const StorageKey = "2fa_accounts_v2"

// Storage persists the whole account list. Secrets arrive already encrypted
// when the vault has a Cipher.
type Storage interface {
	Load(ctx context.Context) ([]Account, error)
	Save(ctx context.Context, accounts []Account) error
}

// MemoryStorage keeps accounts in process memory.
type MemoryStorage struct {
	mu       sync.Mutex
	accounts []Account
}

func NewMemoryStorage(accounts ...Account) *MemoryStorage {
	return &MemoryStorage{accounts: cloneAccounts(accounts)}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAccounts(s.accounts), nil
}

func (s *MemoryStorage) Save(ctx context.Context, accounts []Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = cloneAccounts(accounts)
	return nil
}

func cloneAccounts(accounts []Account) []Account {
	out := make([]Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.clone()
	}
	return slices.Clip(out)
}
