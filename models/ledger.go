package models

import (
	"time"
)

// EntryReason classifies a gold ledger entry
type EntryReason string

const (
	EntryReasonCredit        EntryReason = "credit"
	EntryReasonBet           EntryReason = "bet"
	EntryReasonWin           EntryReason = "win"
	EntryReasonPayout        EntryReason = "payout"
	EntryReasonLotteryTicket EntryReason = "lottery_ticket"
	EntryReasonLotteryWin    EntryReason = "lottery_win"
)

// LedgerEntry represents one immutable signed gold movement. Entries are
// never updated or deleted; a user's balance is always the sum of their
// entries' amounts.
type LedgerEntry struct {
	ID          int64       `db:"id"`
	UserID      int64       `db:"user_id"`
	Amount      int64       `db:"amount"`
	Reason      EntryReason `db:"reason"`
	ReferenceID *string     `db:"reference_id"`
	OfficerID   *int64      `db:"officer_id"`
	CreatedAt   time.Time   `db:"created_at"`
}

// LedgerSummary is the officer-facing view of the economy: how much gold has
// been credited into circulation vs how much players currently hold.
type LedgerSummary struct {
	TotalCredited int64
	TotalBalance  int64
}

// GuildPosition returns credited minus outstanding balances, the amount the
// guild has retained through house edges and cuts.
func (s LedgerSummary) GuildPosition() int64 {
	return s.TotalCredited - s.TotalBalance
}
