package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reverb/events"
	"reverb/models"
)

func TestPayoutService_RequestPayout(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, mockPayoutRepo, _, _ := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	mockLedgerRepo.On("Balance", ctx, int64(123456)).Return(int64(10000), nil)
	mockPayoutRepo.On("PendingSum", ctx, int64(123456)).Return(int64(0), nil)

	mockPayoutRepo.On("Create", ctx, mock.MatchedBy(func(r *models.PayoutRequest) bool {
		return r.UserID == 123456 && r.Amount == 4000
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.PayoutRequest).ID = 7
	})

	request, err := service.RequestPayout(ctx, 123456, 4000)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), request.ID)
	assert.Equal(t, int64(4000), request.Amount)

	mockPayoutRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
}

func TestPayoutService_RequestPayout_PendingReservesBalance(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, mockPayoutRepo, _, _ := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Balance 500, all of it already claimed by a pending request: even a
	// single gold piece must be refused
	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	mockLedgerRepo.On("Balance", ctx, int64(123456)).Return(int64(500), nil)
	mockPayoutRepo.On("PendingSum", ctx, int64(123456)).Return(int64(500), nil)

	request, err := service.RequestPayout(ctx, 123456, 1)

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Nil(t, request)

	mockPayoutRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestPayoutService_RequestPayout_NonPositiveAmount(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewPayoutService(mockFactory)

	request, err := service.RequestPayout(ctx, 123456, 0)

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Nil(t, request)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestPayoutService_SettlePayout(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, mockPayoutRepo, _, mockBus := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	notes := "paid in game mail"
	pending := &models.PayoutRequest{
		ID:     7,
		UserID: 123456,
		Amount: 4000,
		Status: models.PayoutStatusPending,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPayoutRepo.On("GetByID", ctx, int64(7)).Return(pending, nil)
	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	mockPayoutRepo.On("MarkPaid", ctx, int64(7), int64(999), &notes).Return(true, nil)

	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 123456 &&
			e.Amount == -4000 &&
			e.Reason == models.EntryReasonPayout &&
			e.ReferenceID != nil && *e.ReferenceID == "payout:7" &&
			e.OfficerID != nil && *e.OfficerID == 999
	})).Return(nil)
	mockLedgerRepo.On("Balance", ctx, int64(123456)).Return(int64(6000), nil)

	mockBus.On("Publish", mock.MatchedBy(func(ev events.Event) bool {
		settled, ok := ev.(events.PayoutSettledEvent)
		return ok && settled.PayoutID == 7 && settled.Amount == 4000 && settled.NewBalance == 6000
	})).Return()

	err := service.SettlePayout(ctx, 7, 999, &notes)

	assert.NoError(t, err)

	mockPayoutRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestPayoutService_SettlePayout_AlreadyPaid(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, mockPayoutRepo, _, _ := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	paid := &models.PayoutRequest{
		ID:     7,
		UserID: 123456,
		Amount: 4000,
		Status: models.PayoutStatusPaid,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPayoutRepo.On("GetByID", ctx, int64(7)).Return(paid, nil)
	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	// The status guard finds no pending row, so nothing is written
	mockPayoutRepo.On("MarkPaid", ctx, int64(7), int64(999), (*string)(nil)).Return(false, nil)

	err := service.SettlePayout(ctx, 7, 999, nil)

	assert.ErrorIs(t, err, ErrPayoutNotPending)
	mockLedgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestPayoutService_SettlePayout_NotFound(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, _, _, mockPayoutRepo, _, _ := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPayoutRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

	err := service.SettlePayout(ctx, 404, 999, nil)

	assert.ErrorIs(t, err, ErrPayoutNotFound)
}

func TestPayoutService_CancelPayout(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, mockPayoutRepo, _, _ := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	pending := &models.PayoutRequest{
		ID:     7,
		UserID: 123456,
		Amount: 4000,
		Status: models.PayoutStatusPending,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPayoutRepo.On("GetByID", ctx, int64(7)).Return(pending, nil)
	mockPayoutRepo.On("MarkCancelled", ctx, int64(7), int64(123456)).Return(true, nil)

	err := service.CancelPayout(ctx, 7, 123456)

	assert.NoError(t, err)
	// Cancelling a pending request reverses no gold, because none moved
	mockLedgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockPayoutRepo.AssertExpectations(t)
}

func TestPayoutService_ListPending(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, _, _, mockPayoutRepo, _, _ := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	pending := []*models.PayoutRequest{
		{ID: 7, UserID: 123456, Amount: 4000, Status: models.PayoutStatusPending},
		{ID: 9, UserID: 123456, Amount: 1000, Status: models.PayoutStatusPending},
	}
	mockPayoutRepo.On("GetPendingByUser", ctx, int64(123456)).Return(pending, nil)

	requests, err := service.ListPending(ctx, 123456)

	assert.NoError(t, err)
	assert.Equal(t, pending, requests)
}

func TestPayoutService_CancelPayout_ForeignRequest(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, _, _, mockPayoutRepo, _, _ := newMockedUnitOfWork()
	service := NewPayoutService(mockFactory)

	someoneElses := &models.PayoutRequest{
		ID:     7,
		UserID: 999999,
		Amount: 4000,
		Status: models.PayoutStatusPending,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPayoutRepo.On("GetByID", ctx, int64(7)).Return(someoneElses, nil)

	// Another user's request id reads the same as a missing one
	err := service.CancelPayout(ctx, 7, 123456)

	assert.ErrorIs(t, err, ErrPayoutNotFound)
	mockPayoutRepo.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
}
