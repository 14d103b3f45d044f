package limiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// MemoryLimiter is the in-process RateLimiter. A single mutex guards the
// bucket map and every bucket, which keeps the per-user check-and-decrement
// atomic. State is local to the process; use RedisLimiter when a global
// budget across replicas is required.
type MemoryLimiter struct {
	policy Policy

	mu      sync.Mutex
	buckets map[string]*bucket

	now func() time.Time
}

func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy:  policy,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[userID]
	if !ok {
		// New bucket starts full; this call consumes the first token.
		l.buckets[userID] = &bucket{
			tokens:     float64(l.policy.Capacity) - 1,
			lastRefill: now,
		}
		return true
	}

	elapsed := now.Sub(b.lastRefill)
	if elapsed < 0 {
		elapsed = 0
	}
	b.tokens += elapsed.Seconds() * l.policy.tokensPerSecond()
	if b.tokens > float64(l.policy.Capacity) {
		b.tokens = float64(l.policy.Capacity)
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// EvictIdle removes buckets that have not been touched for at least
// idleFor and returns how many were dropped. An idle bucket would have
// refilled to capacity anyway, so dropping it never admits traffic a kept
// bucket would have denied.
func (l *MemoryLimiter) EvictIdle(idleFor time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idleFor)
	evicted := 0
	for userID, b := range l.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(l.buckets, userID)
			evicted++
		}
	}
	return evicted
}

// Size returns the number of tracked buckets.
func (l *MemoryLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
