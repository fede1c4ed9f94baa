package service

import (
	"context"
	"time"

	"reverb/events"
	"reverb/models"
)

// LedgerRepository defines the interface for gold ledger data access.
// The ledger is append-only and owns balance truth: every balance is the sum
// of a user's entry amounts, computed at read time.
type LedgerRepository interface {
	// LockUser serializes ledger-affecting operations for one user within
	// the surrounding transaction
	LockUser(ctx context.Context, userID int64) error

	// Balance returns the user's current balance; unknown users have 0
	Balance(ctx context.Context, userID int64) (int64, error)

	// Append inserts one immutable ledger entry
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// TotalCredited returns the sum of all officer credits
	TotalCredited(ctx context.Context) (int64, error)

	// TotalBalance returns the sum of all entries across all users
	TotalBalance(ctx context.Context) (int64, error)

	// GetByUser returns the most recent entries for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet by its ID
	GetByID(ctx context.Context, id int64) (*models.Bet, error)
}

// PayoutRequestRepository defines the interface for payout request data access
type PayoutRequestRepository interface {
	// Create creates a new pending payout request
	Create(ctx context.Context, request *models.PayoutRequest) error

	// GetByID retrieves a payout request by its ID
	GetByID(ctx context.Context, id int64) (*models.PayoutRequest, error)

	// PendingSum returns the total amount of the user's pending requests
	PendingSum(ctx context.Context, userID int64) (int64, error)

	// MarkPaid flips a pending request to paid; false when not pending
	MarkPaid(ctx context.Context, id int64, officerID int64, notes *string) (bool, error)

	// MarkCancelled flips the requester's pending request to cancelled
	MarkCancelled(ctx context.Context, id int64, userID int64) (bool, error)

	// GetPendingByUser returns the user's pending requests
	GetPendingByUser(ctx context.Context, userID int64) ([]*models.PayoutRequest, error)
}

// LotteryRepository defines the interface for lottery, ticket and winner
// data access
type LotteryRepository interface {
	// GetActive returns the active lottery, or nil when none is open
	GetActive(ctx context.Context) (*models.Lottery, error)

	// Create opens a new lottery with the next lottery number
	Create(ctx context.Context, lottery *models.Lottery) error

	// SetMessageID stores the announcement message handle
	SetMessageID(ctx context.Context, lotteryID int64, messageID int64) error

	// MarkCompleted flips an active lottery to completed; false when it
	// was already closed
	MarkCompleted(ctx context.Context, lotteryID int64) (bool, error)

	// CreateTickets inserts count tickets for the user
	CreateTickets(ctx context.Context, lotteryID int64, userID int64, count int64) ([]*models.LotteryTicket, error)

	// CountTickets returns the total tickets sold in a lottery
	CountTickets(ctx context.Context, lotteryID int64) (int64, error)

	// CountTicketsByUser returns a user's ticket count in a lottery
	CountTicketsByUser(ctx context.Context, lotteryID int64, userID int64) (int64, error)

	// ListTickets returns all tickets of a lottery
	ListTickets(ctx context.Context, lotteryID int64) ([]*models.LotteryTicket, error)

	// CreateWinner records the settlement of a completed lottery
	CreateWinner(ctx context.Context, winner *models.LotteryWinner) error
}

// LedgerService defines the interface for balance and economy operations
type LedgerService interface {
	// GetBalance returns the user's current gold balance
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// Credit credits gold to a user on an officer's authority and returns
	// the user's new balance
	Credit(ctx context.Context, officerID int64, userID int64, amount int64) (int64, error)

	// Summary returns the officer-facing economy overview
	Summary(ctx context.Context) (*models.LedgerSummary, error)

	// GetHistory returns the most recent ledger entries for a user
	GetHistory(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error)
}

// GamblingService defines the interface for wagering games
type GamblingService interface {
	// FlipCoin flips a coin for the given wager and guess; payout is
	// 2x the wager on a match
	FlipCoin(ctx context.Context, userID int64, wager int64, guess models.CoinSide) (*models.BetResult, error)

	// SpinWheel spins the weighted gold wheel. At most one spin per user
	// may be in flight; a concurrent spin is rejected with
	// ErrSpinInProgress. A successful spin holds the user's slot until
	// FinishSpin is called, so the guard covers the caller's animated
	// reveal, not just the wager commit.
	SpinWheel(ctx context.Context, userID int64, wager int64) (*models.BetResult, error)

	// FinishSpin releases the spin slot held by a successful SpinWheel
	FinishSpin(userID int64)
}

// PayoutService defines the interface for the payout request workflow
type PayoutService interface {
	// RequestPayout creates a pending payout request against the user's
	// available balance (balance minus other pending requests)
	RequestPayout(ctx context.Context, userID int64, amount int64) (*models.PayoutRequest, error)

	// SettlePayout marks a pending request paid and debits the ledger.
	// A request can be settled exactly once.
	SettlePayout(ctx context.Context, payoutID int64, officerID int64, notes *string) error

	// CancelPayout lets the requester withdraw a still-pending request
	CancelPayout(ctx context.Context, payoutID int64, userID int64) error

	// ListPending returns the user's pending requests
	ListPending(ctx context.Context, userID int64) ([]*models.PayoutRequest, error)
}

// LotteryService defines the interface for the lottery lifecycle
type LotteryService interface {
	// GetActiveLottery returns the open lottery, or nil when none is open
	GetActiveLottery(ctx context.Context) (*models.Lottery, error)

	// OpenLottery opens a new lottery when none is active
	OpenLottery(ctx context.Context, now time.Time) (*models.Lottery, error)

	// SetAnnouncementMessage stores the announcement message id so the
	// live board can be edited on later purchases
	SetAnnouncementMessage(ctx context.Context, lotteryID int64, messageID int64) error

	// BuyTickets purchases tickets in the active lottery, debiting the
	// buyer once for the full cost
	BuyTickets(ctx context.Context, userID int64, amount int64) (*models.TicketPurchase, error)

	// TicketsSold returns the number of tickets sold in a lottery
	TicketsSold(ctx context.Context, lotteryID int64) (int64, error)

	// CloseExpiredLottery closes the active lottery when its end time has
	// passed: draws a ticket-weighted winner, credits the payout and
	// completes the lottery. Returns nil when nothing was due.
	CloseExpiredLottery(ctx context.Context, now time.Time) (*models.LotteryResult, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	LedgerRepository() LedgerRepository
	BetRepository() BetRepository
	PayoutRequestRepository() PayoutRequestRepository
	LotteryRepository() LotteryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
