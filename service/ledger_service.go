package service

import (
	"context"
	"fmt"

	"reverb/events"
	"reverb/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	balance, err := uow.LedgerRepository().Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

func (s *ledgerService) Credit(ctx context.Context, officerID int64, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit of %d rejected", ErrInvalidAmount, amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.LedgerRepository().LockUser(ctx, userID); err != nil {
		return 0, err
	}

	entry := &models.LedgerEntry{
		UserID:    userID,
		Amount:    amount,
		Reason:    models.EntryReasonCredit,
		OfficerID: &officerID,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to record credit: %w", err)
	}

	newBalance, err := uow.LedgerRepository().Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get new balance: %w", err)
	}

	uow.EventBus().Publish(events.GoldCreditedEvent{
		UserID:     userID,
		OfficerID:  officerID,
		Amount:     amount,
		NewBalance: newBalance,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

func (s *ledgerService) Summary(ctx context.Context) (*models.LedgerSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	credited, err := uow.LedgerRepository().TotalCredited(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total credited: %w", err)
	}

	balance, err := uow.LedgerRepository().TotalBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total balance: %w", err)
	}

	return &models.LedgerSummary{
		TotalCredited: credited,
		TotalBalance:  balance,
	}, nil
}

func (s *ledgerService) GetHistory(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	entries, err := uow.LedgerRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}

	return entries, nil
}
