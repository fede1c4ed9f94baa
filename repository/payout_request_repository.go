package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reverb/database"
	"reverb/models"
)

// PayoutRequestRepository implements the service.PayoutRequestRepository interface
type PayoutRequestRepository struct {
	q queryable
}

// NewPayoutRequestRepository creates a new payout request repository
func NewPayoutRequestRepository(db *database.DB) *PayoutRequestRepository {
	return &PayoutRequestRepository{q: db.Pool}
}

// newPayoutRequestRepositoryWithTx creates a new payout request repository with a transaction
func newPayoutRequestRepositoryWithTx(tx queryable) *PayoutRequestRepository {
	return &PayoutRequestRepository{q: tx}
}

// Create inserts a new pending payout request and fills in its generated
// ID and timestamp
func (r *PayoutRequestRepository) Create(ctx context.Context, request *models.PayoutRequest) error {
	query := `
		INSERT INTO payout_requests (user_id, amount, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, status, requested_at
	`

	err := r.q.QueryRow(ctx, query, request.UserID, request.Amount).Scan(
		&request.ID,
		&request.Status,
		&request.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payout request for user %d: %w", request.UserID, err)
	}

	return nil
}

// GetByID retrieves a payout request by its ID, or nil when it does not exist
func (r *PayoutRequestRepository) GetByID(ctx context.Context, id int64) (*models.PayoutRequest, error) {
	query := `
		SELECT id, user_id, amount, status, requested_at, processed_at, officer_id, notes
		FROM payout_requests
		WHERE id = $1
	`

	var request models.PayoutRequest
	err := r.q.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.UserID,
		&request.Amount,
		&request.Status,
		&request.RequestedAt,
		&request.ProcessedAt,
		&request.OfficerID,
		&request.Notes,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payout request %d: %w", id, err)
	}

	return &request, nil
}

// PendingSum returns the total amount of the user's pending payout requests.
// Available balance is balance minus this sum.
func (r *PayoutRequestRepository) PendingSum(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payout_requests
		WHERE user_id = $1 AND status = 'pending'
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to get pending payout sum for user %d: %w", userID, err)
	}

	return sum, nil
}

// MarkPaid flips a pending request to paid, stamping the settlement fields.
// The status guard in the WHERE clause makes double settlement impossible:
// the update reports false when the request was not pending anymore.
func (r *PayoutRequestRepository) MarkPaid(ctx context.Context, id int64, officerID int64, notes *string) (bool, error) {
	query := `
		UPDATE payout_requests
		SET status = 'paid',
		    processed_at = NOW(),
		    officer_id = $2,
		    notes = $3
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, officerID, notes)
	if err != nil {
		return false, fmt.Errorf("failed to mark payout request %d paid: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkCancelled flips a pending request to cancelled. Only the requester's
// own pending request can be cancelled.
func (r *PayoutRequestRepository) MarkCancelled(ctx context.Context, id int64, userID int64) (bool, error) {
	query := `
		UPDATE payout_requests
		SET status = 'cancelled',
		    processed_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel payout request %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

// GetPendingByUser returns the user's pending requests, oldest first
func (r *PayoutRequestRepository) GetPendingByUser(ctx context.Context, userID int64) ([]*models.PayoutRequest, error) {
	query := `
		SELECT id, user_id, amount, status, requested_at, processed_at, officer_id, notes
		FROM payout_requests
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY requested_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payout requests for user %d: %w", userID, err)
	}
	defer rows.Close()

	var requests []*models.PayoutRequest
	for rows.Next() {
		var request models.PayoutRequest
		err := rows.Scan(
			&request.ID,
			&request.UserID,
			&request.Amount,
			&request.Status,
			&request.RequestedAt,
			&request.ProcessedAt,
			&request.OfficerID,
			&request.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout request: %w", err)
		}
		requests = append(requests, &request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payout requests: %w", err)
	}

	return requests, nil
}
