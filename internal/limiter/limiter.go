// Package limiter gates ledger-mutating operations per user using a token
// bucket: each user owns a bucket holding up to Capacity tokens, refilled
// continuously at RefillRate tokens per RefillPeriod, and every admitted
// operation consumes one token.
package limiter

import (
	"context"
	"time"
)

// Policy defines the token bucket applied to every user.
type Policy struct {
	// Capacity is the maximum token count, i.e. the maximum burst of
	// admitted operations.
	Capacity int
	// RefillRate is the number of tokens added per RefillPeriod.
	RefillRate int
	// RefillPeriod is the window RefillRate is measured over.
	RefillPeriod time.Duration
}

// DefaultPolicy matches the service defaults: 20 operations of burst,
// refilled at 20 tokens per minute.
func DefaultPolicy() Policy {
	return Policy{Capacity: 20, RefillRate: 20, RefillPeriod: time.Minute}
}

// tokensPerSecond converts the policy refill into a continuous rate.
func (p Policy) tokensPerSecond() float64 {
	return float64(p.RefillRate) / p.RefillPeriod.Seconds()
}

// RateLimiter is the admission gate in front of the ledger.
//
// Allow reports whether one more mutating operation is admitted for
// userID. Denial is not an error and consumes nothing; two concurrent
// callers for the same user never both succeed on the last token.
// Buckets for distinct users are fully independent.
type RateLimiter interface {
	Allow(ctx context.Context, userID string) bool
}
