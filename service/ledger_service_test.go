package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reverb/events"
	"reverb/models"
)

func newMockedUnitOfWork() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockLedgerRepository, *MockBetRepository, *MockPayoutRequestRepository, *MockLotteryRepository, *MockEventPublisher) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockLedgerRepo := new(MockLedgerRepository)
	mockBetRepo := new(MockBetRepository)
	mockPayoutRepo := new(MockPayoutRequestRepository)
	mockLotteryRepo := new(MockLotteryRepository)
	mockBus := new(MockEventPublisher)

	mockUoW.SetRepositories(mockLedgerRepo, mockBetRepo, mockPayoutRepo, mockLotteryRepo, mockBus)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockLedgerRepo, mockBetRepo, mockPayoutRepo, mockLotteryRepo, mockBus
}

func TestLedgerService_Credit(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, _, _, mockBus := newMockedUnitOfWork()
	service := NewLedgerService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 123456 &&
			e.Amount == 5000 &&
			e.Reason == models.EntryReasonCredit &&
			e.OfficerID != nil && *e.OfficerID == 999 &&
			e.ReferenceID == nil
	})).Return(nil)
	mockLedgerRepo.On("Balance", ctx, int64(123456)).Return(int64(5000), nil)

	mockBus.On("Publish", mock.MatchedBy(func(ev events.Event) bool {
		credited, ok := ev.(events.GoldCreditedEvent)
		return ok && credited.UserID == 123456 && credited.Amount == 5000 && credited.NewBalance == 5000
	})).Return()

	newBalance, err := service.Credit(ctx, 999, 123456, 5000)

	assert.NoError(t, err)
	assert.Equal(t, int64(5000), newBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestLedgerService_Credit_NonPositiveAmount(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewLedgerService(mockFactory)

	for _, amount := range []int64{0, -100} {
		newBalance, err := service.Credit(ctx, 999, 123456, amount)

		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, int64(0), newBalance)
	}

	// Validation fails before any transaction is opened
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_GetBalance_NewUser(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, _, _, _ := newMockedUnitOfWork()
	service := NewLedgerService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// A user with no ledger entries reads as zero, not as an error
	mockLedgerRepo.On("Balance", ctx, int64(777)).Return(int64(0), nil)

	balance, err := service.GetBalance(ctx, 777)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	mockLedgerRepo.AssertExpectations(t)
}

func TestLedgerService_Summary(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, _, _, _ := newMockedUnitOfWork()
	service := NewLedgerService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLedgerRepo.On("TotalCredited", ctx).Return(int64(100000), nil)
	mockLedgerRepo.On("TotalBalance", ctx).Return(int64(82500), nil)

	summary, err := service.Summary(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(100000), summary.TotalCredited)
	assert.Equal(t, int64(82500), summary.TotalBalance)
	// Gold the guild has absorbed through losses and cuts
	assert.Equal(t, int64(17500), summary.GuildPosition())

	mockLedgerRepo.AssertExpectations(t)
}

func TestLedgerService_GetHistory(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, _, _, _ := newMockedUnitOfWork()
	service := NewLedgerService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	entries := []*models.LedgerEntry{
		{ID: 2, UserID: 123456, Amount: -1000, Reason: models.EntryReasonBet},
		{ID: 1, UserID: 123456, Amount: 5000, Reason: models.EntryReasonCredit},
	}
	mockLedgerRepo.On("GetByUser", ctx, int64(123456), 10).Return(entries, nil)

	history, err := service.GetHistory(ctx, 123456, 10)

	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, entries, history)

	mockLedgerRepo.AssertExpectations(t)
}
