package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const bucketKeyPrefix = "ratelimit:bucket:"

// tokenBucketScript refills and consumes atomically on the redis side. The
// key expires after the TTL so idle buckets evict themselves.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_per_sec = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local last = tonumber(state[2])

if tokens == nil then
    tokens = capacity
    last = now
end

local elapsed = now - last
if elapsed < 0 then
    elapsed = 0
end

tokens = tokens + elapsed * refill_per_sec
if tokens > capacity then
    tokens = capacity
end

local allowed = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill', now)
redis.call('EXPIRE', key, ttl)

return allowed
`)

// RedisLimiter enforces one global token bucket per user across all
// process replicas. Bucket state lives in a redis hash; the Lua script
// makes the read/refill/consume cycle atomic.
//
// Redis failures fail open: the ledger stays available and the denial of
// service protection degrades, which is the right trade for an admission
// gate in front of CPU-only work.
type RedisLimiter struct {
	client *redis.Client
	policy Policy
	ttl    time.Duration
}

// NewRedisLimiter creates a limiter whose idle buckets expire after ttl.
func NewRedisLimiter(client *redis.Client, policy Policy, ttl time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, policy: policy, ttl: ttl}
}

func (l *RedisLimiter) Allow(ctx context.Context, userID string) bool {
	key := bucketKeyPrefix + userID
	now := float64(time.Now().UnixMicro()) / 1e6

	allowed, err := tokenBucketScript.Run(ctx, l.client, []string{key},
		l.policy.Capacity,
		l.policy.tokensPerSecond(),
		now,
		int64(l.ttl.Seconds()),
	).Int64()
	if err != nil {
		log.Warn().Err(err).Str("userId", userID).Msg("redis rate limit check failed, allowing request")
		return true
	}

	return allowed == 1
}
