package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Earn rate plans selectable via EARN_RATE_PLAN.
const (
	EarnRatePlanStandard = "standard"
	EarnRatePlanPremium  = "premium"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RedisURL is optional; when set, admission control uses the
	// redis-backed limiter instead of the in-process one.
	RedisURL string `env:"REDIS_URL"`

	InitialBalance int    `env:"INITIAL_BALANCE" envDefault:"500"`
	EarnRatePlan   string `env:"EARN_RATE_PLAN" envDefault:"standard"`

	RateLimitCapacity     int `env:"RATE_LIMIT_CAPACITY" envDefault:"20"`
	RateLimitRefillPerMin int `env:"RATE_LIMIT_REFILL_PER_MIN" envDefault:"20"`

	MutationWaitSeconds  int `env:"MUTATION_WAIT_SECONDS" envDefault:"5"`
	BucketIdleTTLSeconds int `env:"BUCKET_IDLE_TTL_SECONDS" envDefault:"300"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) MutationWait() time.Duration {
	return time.Duration(c.MutationWaitSeconds) * time.Second
}

func (c *Config) BucketIdleTTL() time.Duration {
	return time.Duration(c.BucketIdleTTLSeconds) * time.Second
}

func (c *Config) Validate() error {
	if c.InitialBalance < 0 {
		return fmt.Errorf("INITIAL_BALANCE must not be negative, got %d", c.InitialBalance)
	}
	if c.EarnRatePlan != EarnRatePlanStandard && c.EarnRatePlan != EarnRatePlanPremium {
		return fmt.Errorf("EARN_RATE_PLAN must be %q or %q, got %q",
			EarnRatePlanStandard, EarnRatePlanPremium, c.EarnRatePlan)
	}
	if c.RateLimitCapacity <= 0 {
		return fmt.Errorf("RATE_LIMIT_CAPACITY must be positive, got %d", c.RateLimitCapacity)
	}
	if c.RateLimitRefillPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_REFILL_PER_MIN must be positive, got %d", c.RateLimitRefillPerMin)
	}
	if c.MutationWaitSeconds <= 0 {
		return fmt.Errorf("MUTATION_WAIT_SECONDS must be positive, got %d", c.MutationWaitSeconds)
	}
	if c.BucketIdleTTLSeconds <= 0 {
		return fmt.Errorf("BUCKET_IDLE_TTL_SECONDS must be positive, got %d", c.BucketIdleTTLSeconds)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
