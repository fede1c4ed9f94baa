package repository

import (
	"context"
	"fmt"

	"reverb/database"
	"reverb/models"
)

// LedgerRepository implements the service.LedgerRepository interface.
// The gold_ledger table is append-only; every balance is derived by summing
// entries, never read from a stored column.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// LockUser takes a transaction-scoped advisory lock on the user. Every
// operation that checks a balance before writing entries locks first, so
// concurrent operations on the same user serialize at the store.
func (r *LedgerRepository) LockUser(ctx context.Context, userID int64) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	return nil
}

// Balance returns the user's current gold balance. Unknown users have a
// balance of zero.
func (r *LedgerRepository) Balance(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM gold_ledger
		WHERE user_id = $1
	`

	var balance int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}

	return balance, nil
}

// Append inserts one immutable ledger entry and fills in its generated
// ID and timestamp. Business-rule validation happens in the services;
// this only records facts.
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO gold_ledger (user_id, amount, reason, reference_id, officer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Amount,
		entry.Reason,
		entry.ReferenceID,
		entry.OfficerID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for user %d: %w", entry.UserID, err)
	}

	return nil
}

// TotalCredited returns the sum of all officer credits, the amount of gold
// ever introduced into the economy.
func (r *LedgerRepository) TotalCredited(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM gold_ledger
		WHERE reason = 'credit'
	`

	var total int64
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get total credited gold: %w", err)
	}

	return total, nil
}

// TotalBalance returns the sum of all entries across all users, the guild's
// total outstanding liability.
func (r *LedgerRepository) TotalBalance(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM gold_ledger
	`

	var total int64
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get total gold balance: %w", err)
	}

	return total, nil
}

// GetByUser returns the most recent entries for a user
func (r *LedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, user_id, amount, reason, reference_id, officer_id, created_at
		FROM gold_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.Reason,
			&entry.ReferenceID,
			&entry.OfficerID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
