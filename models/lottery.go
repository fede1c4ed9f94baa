package models

import "time"

// LotteryStatus is the lifecycle state of a lottery
type LotteryStatus string

const (
	LotteryStatusActive    LotteryStatus = "active"
	LotteryStatusCompleted LotteryStatus = "completed"
)

// Lottery represents one recurring lottery round. At most one lottery is
// active at any time, enforced by a partial unique index.
type Lottery struct {
	ID              int64         `db:"id"`
	LotteryNumber   int64         `db:"lottery_number"`
	StartTime       time.Time     `db:"start_time"`
	EndTime         time.Time     `db:"end_time"`
	TicketPrice     int64         `db:"ticket_price"`
	GuildCutPercent int64         `db:"guild_cut_percent"`
	MessageID       *int64        `db:"message_id"`
	Status          LotteryStatus `db:"status"`
}

// Expired reports whether the lottery's end time has passed
func (l *Lottery) Expired(now time.Time) bool {
	return !now.Before(l.EndTime)
}

// LotteryTicket represents one purchased ticket. The draw is weighted by
// ticket, so a player holding more tickets wins proportionally more often.
type LotteryTicket struct {
	ID          int64     `db:"id"`
	LotteryID   int64     `db:"lottery_id"`
	UserID      int64     `db:"user_id"`
	PurchasedAt time.Time `db:"purchased_at"`
}

// LotteryWinner is the settlement record created exactly once per completed
// lottery that sold tickets.
type LotteryWinner struct {
	ID              int64     `db:"id"`
	LotteryID       int64     `db:"lottery_id"`
	UserID          int64     `db:"user_id"`
	WinningTicketID int64     `db:"winning_ticket_id"`
	TotalPot        int64     `db:"total_pot"`
	GuildCut        int64     `db:"guild_cut"`
	Payout          int64     `db:"payout"`
	CreatedAt       time.Time `db:"created_at"`
}

// TicketPurchase is the result of a successful ticket purchase
type TicketPurchase struct {
	LotteryID     int64
	LotteryNumber int64
	Tickets       int64
	TotalCost     int64
	NewBalance    int64
	UserTickets   int64 // buyer's total for this lottery, after the purchase
	TotalTickets  int64 // all tickets sold in this lottery, after the purchase
}

// LotteryResult describes a closed lottery. Winner is nil when the lottery
// ended with no tickets sold.
type LotteryResult struct {
	Lottery *Lottery
	Winner  *LotteryWinner
}
