package service

import (
	"github.com/rs/zerolog/log"

	"github.com/loyaltylab/reward-ledger-go/internal/model"
)

// MutationEvent describes one committed balance change.
type MutationEvent struct {
	UserID     string
	Kind       model.TransactionKind
	Points     int
	NewBalance int
}

// MutationHook runs synchronously after a mutation has been applied. A
// failing hook must not affect the committed mutation, so panics are
// contained by the service.
type MutationHook func(MutationEvent)

// LoggingMutationHook records every committed mutation.
func LoggingMutationHook() MutationHook {
	return func(ev MutationEvent) {
		log.Info().
			Str("userId", ev.UserID).
			Str("kind", string(ev.Kind)).
			Int("points", ev.Points).
			Int("balance", ev.NewBalance).
			Msg("ledger mutation committed")
	}
}
