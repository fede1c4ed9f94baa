package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reverb/database"
	"reverb/models"
)

// LotteryRepository implements the service.LotteryRepository interface,
// covering lotteries, their tickets and their winner records.
type LotteryRepository struct {
	q queryable
}

// NewLotteryRepository creates a new lottery repository
func NewLotteryRepository(db *database.DB) *LotteryRepository {
	return &LotteryRepository{q: db.Pool}
}

// newLotteryRepositoryWithTx creates a new lottery repository with a transaction
func newLotteryRepositoryWithTx(tx queryable) *LotteryRepository {
	return &LotteryRepository{q: tx}
}

// GetActive returns the currently active lottery, or nil when none is active
func (r *LotteryRepository) GetActive(ctx context.Context) (*models.Lottery, error) {
	query := `
		SELECT id, lottery_number, start_time, end_time, ticket_price, guild_cut_percent, message_id, status
		FROM lotteries
		WHERE status = 'active'
	`

	var lottery models.Lottery
	err := r.q.QueryRow(ctx, query).Scan(
		&lottery.ID,
		&lottery.LotteryNumber,
		&lottery.StartTime,
		&lottery.EndTime,
		&lottery.TicketPrice,
		&lottery.GuildCutPercent,
		&lottery.MessageID,
		&lottery.Status,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active lottery: %w", err)
	}

	return &lottery, nil
}

// Create opens a new lottery with the next lottery number. The partial
// unique index on status rejects this when a lottery is already active.
func (r *LotteryRepository) Create(ctx context.Context, lottery *models.Lottery) error {
	query := `
		INSERT INTO lotteries (lottery_number, start_time, end_time, ticket_price, guild_cut_percent, status)
		SELECT COALESCE(MAX(lottery_number), 0) + 1, $1, $2, $3, $4, 'active'
		FROM lotteries
		RETURNING id, lottery_number, status
	`

	err := r.q.QueryRow(ctx, query,
		lottery.StartTime,
		lottery.EndTime,
		lottery.TicketPrice,
		lottery.GuildCutPercent,
	).Scan(&lottery.ID, &lottery.LotteryNumber, &lottery.Status)
	if err != nil {
		return fmt.Errorf("failed to create lottery: %w", err)
	}

	return nil
}

// SetMessageID stores the announcement message handle for later edits
func (r *LotteryRepository) SetMessageID(ctx context.Context, lotteryID int64, messageID int64) error {
	query := `
		UPDATE lotteries
		SET message_id = $2
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, lotteryID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set message id for lottery %d: %w", lotteryID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lottery %d not found", lotteryID)
	}

	return nil
}

// MarkCompleted flips an active lottery to completed. The status guard
// reports false when the lottery was already closed by a concurrent tick.
func (r *LotteryRepository) MarkCompleted(ctx context.Context, lotteryID int64) (bool, error) {
	query := `
		UPDATE lotteries
		SET status = 'completed'
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.q.Exec(ctx, query, lotteryID)
	if err != nil {
		return false, fmt.Errorf("failed to mark lottery %d completed: %w", lotteryID, err)
	}

	return result.RowsAffected() > 0, nil
}

// CreateTickets inserts count tickets for the user in a single batch insert
// and returns them in purchase order
func (r *LotteryRepository) CreateTickets(ctx context.Context, lotteryID int64, userID int64, count int64) ([]*models.LotteryTicket, error) {
	if count <= 0 {
		return nil, nil
	}

	query := `
		INSERT INTO lottery_tickets (lottery_id, user_id)
		SELECT $1, $2
		FROM generate_series(1, $3)
		RETURNING id, lottery_id, user_id, purchased_at
	`

	rows, err := r.q.Query(ctx, query, lotteryID, userID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to create %d tickets for user %d in lottery %d: %w", count, userID, lotteryID, err)
	}
	defer rows.Close()

	var tickets []*models.LotteryTicket
	for rows.Next() {
		var ticket models.LotteryTicket
		err := rows.Scan(&ticket.ID, &ticket.LotteryID, &ticket.UserID, &ticket.PurchasedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lottery tickets: %w", err)
	}

	return tickets, nil
}

// CountTickets returns the total number of tickets sold in a lottery
func (r *LotteryRepository) CountTickets(ctx context.Context, lotteryID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM lottery_tickets WHERE lottery_id = $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, lotteryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets for lottery %d: %w", lotteryID, err)
	}

	return count, nil
}

// CountTicketsByUser returns the number of tickets a user holds in a lottery
func (r *LotteryRepository) CountTicketsByUser(ctx context.Context, lotteryID int64, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM lottery_tickets WHERE lottery_id = $1 AND user_id = $2`

	var count int64
	if err := r.q.QueryRow(ctx, query, lotteryID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets for user %d in lottery %d: %w", userID, lotteryID, err)
	}

	return count, nil
}

// ListTickets returns all tickets of a lottery in insertion order. The
// closing draw picks a uniformly random element of this slice, which makes
// the draw ticket-weighted.
func (r *LotteryRepository) ListTickets(ctx context.Context, lotteryID int64) ([]*models.LotteryTicket, error) {
	query := `
		SELECT id, lottery_id, user_id, purchased_at
		FROM lottery_tickets
		WHERE lottery_id = $1
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for lottery %d: %w", lotteryID, err)
	}
	defer rows.Close()

	var tickets []*models.LotteryTicket
	for rows.Next() {
		var ticket models.LotteryTicket
		err := rows.Scan(&ticket.ID, &ticket.LotteryID, &ticket.UserID, &ticket.PurchasedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lottery tickets: %w", err)
	}

	return tickets, nil
}

// CreateWinner records the settlement of a completed lottery. The unique
// constraint on lottery_id guarantees at most one winner per lottery.
func (r *LotteryRepository) CreateWinner(ctx context.Context, winner *models.LotteryWinner) error {
	query := `
		INSERT INTO lottery_winners (lottery_id, user_id, winning_ticket_id, total_pot, guild_cut, payout)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		winner.LotteryID,
		winner.UserID,
		winner.WinningTicketID,
		winner.TotalPot,
		winner.GuildCut,
		winner.Payout,
	).Scan(&winner.ID, &winner.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create winner for lottery %d: %w", winner.LotteryID, err)
	}

	return nil
}
