package service

import (
	"context"
	"fmt"

	"reverb/events"
	"reverb/models"
)

type payoutService struct {
	uowFactory UnitOfWorkFactory
}

// NewPayoutService creates a new payout service
func NewPayoutService(uowFactory UnitOfWorkFactory) PayoutService {
	return &payoutService{
		uowFactory: uowFactory,
	}
}

func (s *payoutService) RequestPayout(ctx context.Context, userID int64, amount int64) (*models.PayoutRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payout of %d rejected", ErrInvalidAmount, amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.LedgerRepository().LockUser(ctx, userID); err != nil {
		return nil, err
	}

	balance, err := uow.LedgerRepository().Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	pending, err := uow.PayoutRequestRepository().PendingSum(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payout sum: %w", err)
	}

	// Available balance, not raw balance, is the spending limit. Two
	// requests can never claim the same gold.
	available := balance - pending
	if amount > available {
		return nil, fmt.Errorf("%w: %d available, requested %d", ErrInsufficientBalance, available, amount)
	}

	request := &models.PayoutRequest{
		UserID: userID,
		Amount: amount,
	}
	if err := uow.PayoutRequestRepository().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create payout request: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return request, nil
}

func (s *payoutService) SettlePayout(ctx context.Context, payoutID int64, officerID int64, notes *string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	request, err := uow.PayoutRequestRepository().GetByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("failed to get payout request: %w", err)
	}
	if request == nil {
		return fmt.Errorf("%w: id %d", ErrPayoutNotFound, payoutID)
	}

	if err := uow.LedgerRepository().LockUser(ctx, request.UserID); err != nil {
		return err
	}

	// The status-guarded update is what makes settlement idempotent: a
	// second settle finds no pending row and writes nothing
	settled, err := uow.PayoutRequestRepository().MarkPaid(ctx, payoutID, officerID, notes)
	if err != nil {
		return fmt.Errorf("failed to settle payout request: %w", err)
	}
	if !settled {
		return fmt.Errorf("%w: id %d", ErrPayoutNotPending, payoutID)
	}

	reference := payoutReference(payoutID)
	debit := &models.LedgerEntry{
		UserID:      request.UserID,
		Amount:      -request.Amount,
		Reason:      models.EntryReasonPayout,
		ReferenceID: &reference,
		OfficerID:   &officerID,
	}
	if err := uow.LedgerRepository().Append(ctx, debit); err != nil {
		return fmt.Errorf("failed to record payout debit: %w", err)
	}

	newBalance, err := uow.LedgerRepository().Balance(ctx, request.UserID)
	if err != nil {
		return fmt.Errorf("failed to get new balance: %w", err)
	}

	uow.EventBus().Publish(events.PayoutSettledEvent{
		PayoutID:   payoutID,
		UserID:     request.UserID,
		OfficerID:  officerID,
		Amount:     request.Amount,
		NewBalance: newBalance,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *payoutService) CancelPayout(ctx context.Context, payoutID int64, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	request, err := uow.PayoutRequestRepository().GetByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("failed to get payout request: %w", err)
	}
	if request == nil || request.UserID != userID {
		// A foreign request id reads the same as a missing one, so users
		// cannot probe other players' payout ids
		return fmt.Errorf("%w: id %d", ErrPayoutNotFound, payoutID)
	}

	cancelled, err := uow.PayoutRequestRepository().MarkCancelled(ctx, payoutID, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel payout request: %w", err)
	}
	if !cancelled {
		return fmt.Errorf("%w: id %d", ErrPayoutNotPending, payoutID)
	}

	// No ledger entry: a pending request never debited anything

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *payoutService) ListPending(ctx context.Context, userID int64) ([]*models.PayoutRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	requests, err := uow.PayoutRequestRepository().GetPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payout requests: %w", err)
	}

	return requests, nil
}
