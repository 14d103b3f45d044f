package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	// Use DB 15 for tests
	opts, err := redis.ParseURL("redis://localhost:6379/15")
	require.NoError(t, err)

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skip("Redis not available for testing")
	}

	client.FlushDB(context.Background())
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLimiter_Allow(t *testing.T) {
	client := newTestRedisClient(t)
	ctx := context.Background()

	t.Run("allows up to capacity then denies", func(t *testing.T) {
		l := NewRedisLimiter(client, Policy{Capacity: 3, RefillRate: 3, RefillPeriod: time.Minute}, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, l.Allow(ctx, "redis-u1"), "call %d should be allowed", i+1)
		}
		assert.False(t, l.Allow(ctx, "redis-u1"), "call past capacity should be denied")
	})

	t.Run("different users are isolated", func(t *testing.T) {
		l := NewRedisLimiter(client, Policy{Capacity: 1, RefillRate: 1, RefillPeriod: time.Minute}, time.Minute)

		assert.True(t, l.Allow(ctx, "redis-userA"))
		assert.False(t, l.Allow(ctx, "redis-userA"))
		assert.True(t, l.Allow(ctx, "redis-userB"))
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		l := NewRedisLimiter(client, Policy{Capacity: 1, RefillRate: 60, RefillPeriod: time.Minute}, time.Minute)

		assert.True(t, l.Allow(ctx, "redis-refill"))
		assert.False(t, l.Allow(ctx, "redis-refill"))

		// 60/min refills one token per second.
		time.Sleep(1100 * time.Millisecond)
		assert.True(t, l.Allow(ctx, "redis-refill"))
	})

	t.Run("bucket key carries a TTL", func(t *testing.T) {
		l := NewRedisLimiter(client, DefaultPolicy(), 30*time.Second)

		l.Allow(ctx, "redis-ttl")

		ttl, err := client.TTL(ctx, bucketKeyPrefix+"redis-ttl").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0), "idle buckets must expire on their own")
	})
}

func TestRedisLimiter_FailOpen(t *testing.T) {
	t.Run("allows requests when redis is unreachable", func(t *testing.T) {
		unreachable := redis.NewClient(&redis.Options{Addr: "localhost:1"})
		defer unreachable.Close()

		l := NewRedisLimiter(unreachable, DefaultPolicy(), time.Minute)

		assert.True(t, l.Allow(context.Background(), "u1"))
	})
}
