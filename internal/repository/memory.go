package repository

import (
	"context"
	"sync"

	"github.com/loyaltylab/reward-ledger-go/internal/model"
)

// MemoryAccountRepository is the in-process AccountRepository. Accounts
// live for the lifetime of the repository; there is no eviction.
type MemoryAccountRepository struct {
	initialBalance int

	mu       sync.RWMutex
	accounts map[string]*model.RewardAccount
}

func NewMemoryAccountRepository(initialBalance int) *MemoryAccountRepository {
	return &MemoryAccountRepository{
		initialBalance: initialBalance,
		accounts:       make(map[string]*model.RewardAccount),
	}
}

func (r *MemoryAccountRepository) GetOrCreate(_ context.Context, userID string) (*model.RewardAccount, error) {
	r.mu.RLock()
	account, ok := r.accounts[userID]
	r.mu.RUnlock()
	if ok {
		return account, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the account between the locks.
	if account, ok := r.accounts[userID]; ok {
		return account, nil
	}

	account = model.NewRewardAccount(userID, r.initialBalance)
	r.accounts[userID] = account
	return account, nil
}

func (r *MemoryAccountRepository) Exists(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[userID]
	return ok, nil
}

// Count returns the number of provisioned accounts.
func (r *MemoryAccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}
