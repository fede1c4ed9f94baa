package models

import "time"

// PayoutStatus is the lifecycle state of a payout request
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusPaid      PayoutStatus = "paid"
	PayoutStatusCancelled PayoutStatus = "cancelled"
)

// PayoutRequest represents a withdrawal request settled by an officer.
// A request only debits the ledger when it moves to paid, and it can move
// to paid exactly once.
type PayoutRequest struct {
	ID          int64        `db:"id"`
	UserID      int64        `db:"user_id"`
	Amount      int64        `db:"amount"`
	Status      PayoutStatus `db:"status"`
	RequestedAt time.Time    `db:"requested_at"`
	ProcessedAt *time.Time   `db:"processed_at"`
	OfficerID   *int64       `db:"officer_id"`
	Notes       *string      `db:"notes"`
}
