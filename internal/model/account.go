package model

import (
	"sync"
	"time"
)

// RewardAccount holds one user's point balance together with an
// append-only transaction log. Balance and log are mutated under a single
// mutex so no reader ever observes a balance that disagrees with the
// records behind it. Record timestamps are non-decreasing because every
// append happens inside that critical section.
type RewardAccount struct {
	userID string

	mu           sync.Mutex
	balance      int
	transactions []TransactionRecord
}

// NewRewardAccount creates an account with the given starting balance and
// one synthetic INITIAL record.
func NewRewardAccount(userID string, initialBalance int) *RewardAccount {
	a := &RewardAccount{
		userID:  userID,
		balance: initialBalance,
	}
	a.transactions = append(a.transactions, TransactionRecord{
		Kind:        TransactionKindInitial,
		Points:      initialBalance,
		Description: "Initial balance",
		Timestamp:   time.Now(),
		UserID:      userID,
	})
	return a
}

func (a *RewardAccount) UserID() string {
	return a.userID
}

// Credit adds points to the balance and appends an EARN record. Callers
// validate that points is positive before calling. Returns the new balance.
func (a *RewardAccount) Credit(points int, description string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance += points
	a.transactions = append(a.transactions, TransactionRecord{
		Kind:        TransactionKindEarn,
		Points:      points,
		Description: description,
		Timestamp:   time.Now(),
		UserID:      a.userID,
	})
	return a.balance
}

// Debit removes points from the balance if it covers them, appending a
// REDEEM record. Returns false and leaves the account untouched when the
// balance is insufficient; that is a normal outcome, not an error.
func (a *RewardAccount) Debit(points int, description string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.balance < points {
		return false
	}

	a.balance -= points
	a.transactions = append(a.transactions, TransactionRecord{
		Kind:        TransactionKindRedeem,
		Points:      points,
		Description: description,
		Timestamp:   time.Now(),
		UserID:      a.userID,
	})
	return true
}

// Balance returns the current point balance.
func (a *RewardAccount) Balance() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Snapshot returns the balance and a copy of the transaction log taken at
// the same instant. Later mutations never alter the returned slice.
func (a *RewardAccount) Snapshot() (int, []TransactionRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	transactions := make([]TransactionRecord, len(a.transactions))
	copy(transactions, a.transactions)
	return a.balance, transactions
}
