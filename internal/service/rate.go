package service

import (
	"github.com/loyaltylab/reward-ledger-go/internal/config"
)

// PointRate converts a transaction amount into earned points. Rates are
// pure functions selected at construction time.
type PointRate func(amount float64) int

const (
	standardPointsPerUnit = 10
	premiumPointsPerUnit  = 15
)

// StandardPointRate awards 10 points per currency unit, truncated.
func StandardPointRate(amount float64) int {
	return int(amount * standardPointsPerUnit)
}

// PremiumPointRate awards 15 points per currency unit, truncated.
func PremiumPointRate(amount float64) int {
	return int(amount * premiumPointsPerUnit)
}

// PointRateForPlan maps a configured plan name to its rate. Unknown plans
// fall back to the standard rate; config validation rejects them earlier.
func PointRateForPlan(plan string) PointRate {
	if plan == config.EarnRatePlanPremium {
		return PremiumPointRate
	}
	return StandardPointRate
}
