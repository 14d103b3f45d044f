package repository

import (
	"context"

	"github.com/loyaltylab/reward-ledger-go/internal/model"
)

// AccountRepository provides get-or-create access to per-user reward
// accounts. Implementations must guarantee that concurrent GetOrCreate
// calls for a userID not yet known produce exactly one account, with every
// caller observing the same shared instance.
type AccountRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*model.RewardAccount, error)
	Exists(ctx context.Context, userID string) (bool, error)
}
