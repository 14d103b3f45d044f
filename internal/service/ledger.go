package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/loyaltylab/reward-ledger-go/internal/errors"
	"github.com/loyaltylab/reward-ledger-go/internal/limiter"
	"github.com/loyaltylab/reward-ledger-go/internal/model"
	"github.com/loyaltylab/reward-ledger-go/internal/repository"
)

const defaultMutationWait = 5 * time.Second

// LedgerService orchestrates reward point operations: validate the input,
// admit the caller through the rate limiter, then mutate the account.
// Mutations for one user are serialized through a per-user gate with a
// bounded wait; operations on distinct users proceed in parallel.
type LedgerService struct {
	accounts repository.AccountRepository
	limiter  limiter.RateLimiter
	rate     PointRate
	hooks    []MutationHook

	gateWait time.Duration
	gateMu   sync.Mutex
	gates    map[string]chan struct{}
}

func NewLedgerService(
	accounts repository.AccountRepository,
	admission limiter.RateLimiter,
	rate PointRate,
	hooks ...MutationHook,
) *LedgerService {
	return &LedgerService{
		accounts: accounts,
		limiter:  admission,
		rate:     rate,
		hooks:    hooks,
		gateWait: defaultMutationWait,
		gates:    make(map[string]chan struct{}),
	}
}

// SetMutationWait bounds how long a mutation may block on the per-user
// gate before failing with SYSTEM_BUSY.
func (s *LedgerService) SetMutationWait(d time.Duration) {
	s.gateWait = d
}

// EarnPoints converts a transaction amount into points and credits them.
// Returns the points earned and the resulting balance.
func (s *LedgerService) EarnPoints(ctx context.Context, userID string, transactionAmount float64) (int, int, error) {
	if transactionAmount <= 0 {
		return 0, 0, apperrors.InvalidTransaction("Transaction amount must be positive")
	}

	if !s.limiter.Allow(ctx, userID) {
		return 0, 0, apperrors.RateLimitExceeded()
	}

	account, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, 0, apperrors.Internal("Failed to resolve account").WithCause(err)
	}

	release, err := s.acquireGate(userID)
	if err != nil {
		return 0, 0, err
	}
	defer release()

	pointsEarned := s.rate(transactionAmount)
	description := fmt.Sprintf("Earned points from transaction amount: %.2f", transactionAmount)
	newBalance := account.Credit(pointsEarned, description)

	s.fireHooks(MutationEvent{
		UserID:     userID,
		Kind:       model.TransactionKindEarn,
		Points:     pointsEarned,
		NewBalance: newBalance,
	})

	return pointsEarned, newBalance, nil
}

// RedeemPoints removes points from the user's balance. A balance that
// cannot cover the redemption fails with INSUFFICIENT_POINTS carrying the
// available and requested amounts; nothing is deducted in that case.
func (s *LedgerService) RedeemPoints(ctx context.Context, userID string, points int) (int, error) {
	if points <= 0 {
		return 0, apperrors.InvalidTransaction("Points to redeem must be positive")
	}

	if !s.limiter.Allow(ctx, userID) {
		return 0, apperrors.RateLimitExceeded()
	}

	account, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("Failed to resolve account").WithCause(err)
	}

	release, err := s.acquireGate(userID)
	if err != nil {
		return 0, err
	}
	defer release()

	description := fmt.Sprintf("Redeemed %d points", points)
	if !account.Debit(points, description) {
		return 0, apperrors.InsufficientPoints(account.Balance(), points)
	}

	newBalance := account.Balance()
	s.fireHooks(MutationEvent{
		UserID:     userID,
		Kind:       model.TransactionKindRedeem,
		Points:     points,
		NewBalance: newBalance,
	})

	return newBalance, nil
}

// GetBalance returns the user's current balance. Read-only queries are
// never rate-limited; the only side effect is lazy account creation.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (int, error) {
	account, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("Failed to resolve account").WithCause(err)
	}
	return account.Balance(), nil
}

// GetTransactionHistory returns a snapshot of the user's transaction log
// in insertion order.
func (s *LedgerService) GetTransactionHistory(ctx context.Context, userID string) ([]model.TransactionRecord, error) {
	account, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve account").WithCause(err)
	}
	_, transactions := account.Snapshot()
	return transactions, nil
}

// UserExists reports whether an account has been provisioned, without
// creating one.
func (s *LedgerService) UserExists(ctx context.Context, userID string) (bool, error) {
	exists, err := s.accounts.Exists(ctx, userID)
	if err != nil {
		return false, apperrors.Internal("Failed to check account").WithCause(err)
	}
	return exists, nil
}

// acquireGate takes the per-user mutation gate, waiting at most gateWait.
// A timeout means contention, not a business failure, so the caller gets
// the retryable SYSTEM_BUSY.
func (s *LedgerService) acquireGate(userID string) (release func(), err error) {
	s.gateMu.Lock()
	gate, ok := s.gates[userID]
	if !ok {
		gate = make(chan struct{}, 1)
		s.gates[userID] = gate
	}
	s.gateMu.Unlock()

	timer := time.NewTimer(s.gateWait)
	defer timer.Stop()

	select {
	case gate <- struct{}{}:
		return func() { <-gate }, nil
	case <-timer.C:
		return nil, apperrors.SystemBusy()
	}
}

// fireHooks runs post-commit hooks. The mutation is already applied, so a
// misbehaving hook is logged and skipped rather than propagated.
func (s *LedgerService) fireHooks(ev MutationEvent) {
	for _, hook := range s.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Str("userId", ev.UserID).
						Interface("panic", r).
						Msg("mutation hook panicked")
				}
			}()
			hook(ev)
		}()
	}
}
