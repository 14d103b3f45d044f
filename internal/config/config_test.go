package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("MutationWait converts seconds to duration", func(t *testing.T) {
		cfg := &Config{MutationWaitSeconds: 5}
		assert.Equal(t, 5*time.Second, cfg.MutationWait())
	})

	t.Run("BucketIdleTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{BucketIdleTTLSeconds: 300}
		assert.Equal(t, 300*time.Second, cfg.BucketIdleTTL())
	})
}

func TestLoad(t *testing.T) {
	envKeys := []string{
		"PORT", "LOG_LEVEL", "REDIS_URL", "INITIAL_BALANCE", "EARN_RATE_PLAN",
		"RATE_LIMIT_CAPACITY", "RATE_LIMIT_REFILL_PER_MIN",
		"MUTATION_WAIT_SECONDS", "BUCKET_IDLE_TTL_SECONDS",
	}
	// Register restoration via t.Setenv, then clear so defaults apply.
	for _, k := range envKeys {
		t.Setenv(k, "placeholder")
		os.Unsetenv(k)
	}

	t.Run("loads config with defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 500, cfg.InitialBalance)
		assert.Equal(t, EarnRatePlanStandard, cfg.EarnRatePlan)
		assert.Equal(t, 20, cfg.RateLimitCapacity)
		assert.Equal(t, 20, cfg.RateLimitRefillPerMin)
		assert.Equal(t, 5, cfg.MutationWaitSeconds)
		assert.Equal(t, 300, cfg.BucketIdleTTLSeconds)
	})

	t.Run("loads custom values", func(t *testing.T) {
		t.Setenv("PORT", "3000")
		t.Setenv("EARN_RATE_PLAN", "premium")
		t.Setenv("RATE_LIMIT_CAPACITY", "50")
		t.Setenv("INITIAL_BALANCE", "100")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, EarnRatePlanPremium, cfg.EarnRatePlan)
		assert.Equal(t, 50, cfg.RateLimitCapacity)
		assert.Equal(t, 100, cfg.InitialBalance)
	})

	t.Run("rejects unknown earn rate plan", func(t *testing.T) {
		t.Setenv("EARN_RATE_PLAN", "platinum")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EARN_RATE_PLAN")
	})

	t.Run("rejects negative initial balance", func(t *testing.T) {
		t.Setenv("INITIAL_BALANCE", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INITIAL_BALANCE")
	})

	t.Run("rejects non-positive rate limit capacity", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_CAPACITY", "0")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_CAPACITY")
	})
}
