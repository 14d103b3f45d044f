package model

import "time"

// TransactionKind classifies a balance change.
type TransactionKind string

const (
	TransactionKindInitial TransactionKind = "INITIAL"
	TransactionKindEarn    TransactionKind = "EARN"
	TransactionKindRedeem  TransactionKind = "REDEEM"
)

// TransactionRecord is an immutable entry describing one balance change.
// Points is always a positive magnitude; Kind tells whether it was added
// or removed.
type TransactionRecord struct {
	Kind        TransactionKind `json:"kind"`
	Points      int             `json:"points"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	UserID      string          `json:"userId"`
}
