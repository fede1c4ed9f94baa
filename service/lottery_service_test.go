package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reverb/events"
	"reverb/models"
)

func testLotteryConfig() LotteryConfig {
	return LotteryConfig{
		TicketPrice:     5000,
		GuildCutPercent: 20,
		Duration:        14 * 24 * time.Hour,
		MaxTickets:      20,
	}
}

func TestLotteryService_OpenLottery(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mockFactory, mockUoW, _, _, _, mockLotteryRepo, _ := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("Create", ctx, mock.MatchedBy(func(l *models.Lottery) bool {
		return l.StartTime.Equal(now) &&
			l.EndTime.Equal(now.Add(14*24*time.Hour)) &&
			l.TicketPrice == 5000 &&
			l.GuildCutPercent == 20
	})).Return(nil).Run(func(args mock.Arguments) {
		lottery := args.Get(1).(*models.Lottery)
		lottery.ID = 3
		lottery.LotteryNumber = 3
		lottery.Status = models.LotteryStatusActive
	})

	lottery, err := service.OpenLottery(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), lottery.LotteryNumber)
	assert.Equal(t, models.LotteryStatusActive, lottery.Status)

	mockLotteryRepo.AssertExpectations(t)
}

func TestLotteryService_BuyTickets(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, _, mockLotteryRepo, _ := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	active := &models.Lottery{
		ID:            3,
		LotteryNumber: 3,
		TicketPrice:   5000,
		Status:        models.LotteryStatusActive,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(active, nil)
	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	mockLotteryRepo.On("CountTicketsByUser", ctx, int64(3), int64(123456)).Return(int64(2), nil)
	mockLedgerRepo.On("Balance", ctx, int64(123456)).Return(int64(25000), nil)

	tickets := []*models.LotteryTicket{{ID: 10}, {ID: 11}, {ID: 12}, {ID: 13}}
	mockLotteryRepo.On("CreateTickets", ctx, int64(3), int64(123456), int64(4)).Return(tickets, nil)

	// Four tickets, one debit
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 123456 &&
			e.Amount == -20000 &&
			e.Reason == models.EntryReasonLotteryTicket &&
			e.ReferenceID != nil && *e.ReferenceID == "lottery:3"
	})).Return(nil)

	mockLotteryRepo.On("CountTickets", ctx, int64(3)).Return(int64(9), nil)

	purchase, err := service.BuyTickets(ctx, 123456, 4)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), purchase.Tickets)
	assert.Equal(t, int64(20000), purchase.TotalCost)
	assert.Equal(t, int64(5000), purchase.NewBalance)
	assert.Equal(t, int64(6), purchase.UserTickets)
	assert.Equal(t, int64(9), purchase.TotalTickets)

	mockLotteryRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
}

func TestLotteryService_BuyTickets_NoActiveLottery(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, _, _, _, mockLotteryRepo, _ := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(nil, nil)

	purchase, err := service.BuyTickets(ctx, 123456, 1)

	assert.ErrorIs(t, err, ErrNoActiveLottery)
	assert.Nil(t, purchase)
}

func TestLotteryService_BuyTickets_OverCap(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, _, mockLotteryRepo, _ := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	active := &models.Lottery{ID: 3, TicketPrice: 5000, Status: models.LotteryStatusActive}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(active, nil)
	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	mockLotteryRepo.On("CountTicketsByUser", ctx, int64(3), int64(123456)).Return(int64(18), nil)

	// 18 held + 3 requested breaches the cap of 20; the purchase is
	// rejected whole, not trimmed to the 2 remaining
	purchase, err := service.BuyTickets(ctx, 123456, 3)

	assert.ErrorIs(t, err, ErrTicketLimitExceeded)
	assert.Nil(t, purchase)
	mockLotteryRepo.AssertNotCalled(t, "CreateTickets", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockLedgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestLotteryService_BuyTickets_InsufficientBalance(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockLedgerRepo, _, _, mockLotteryRepo, _ := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	active := &models.Lottery{ID: 3, TicketPrice: 5000, Status: models.LotteryStatusActive}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(active, nil)
	mockLedgerRepo.On("LockUser", ctx, int64(123456)).Return(nil)
	mockLotteryRepo.On("CountTicketsByUser", ctx, int64(3), int64(123456)).Return(int64(0), nil)
	mockLedgerRepo.On("Balance", ctx, int64(123456)).Return(int64(9999), nil)

	purchase, err := service.BuyTickets(ctx, 123456, 2)

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Nil(t, purchase)
	mockLotteryRepo.AssertNotCalled(t, "CreateTickets", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLotteryService_CloseExpiredLottery(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	mockFactory, mockUoW, mockLedgerRepo, _, _, mockLotteryRepo, mockBus := newMockedUnitOfWork()

	service := NewLotteryService(mockFactory, testLotteryConfig()).(*lotteryService)
	service.pick = func(n int64) int64 { return 2 } // third ticket wins

	expired := &models.Lottery{
		ID:              3,
		LotteryNumber:   3,
		TicketPrice:     5000,
		GuildCutPercent: 20,
		EndTime:         now.Add(-time.Minute),
		Status:          models.LotteryStatusActive,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(expired, nil)
	mockLotteryRepo.On("MarkCompleted", ctx, int64(3)).Return(true, nil)

	tickets := []*models.LotteryTicket{
		{ID: 10, UserID: 111},
		{ID: 11, UserID: 111},
		{ID: 12, UserID: 222},
		{ID: 13, UserID: 333},
	}
	mockLotteryRepo.On("ListTickets", ctx, int64(3)).Return(tickets, nil)

	// Pot 20,000 at a 20 percent cut: 4,000 stays with the guild, the
	// winner takes 16,000
	mockLedgerRepo.On("LockUser", ctx, int64(222)).Return(nil)
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 222 &&
			e.Amount == 16000 &&
			e.Reason == models.EntryReasonLotteryWin &&
			e.ReferenceID != nil && *e.ReferenceID == "lottery:3"
	})).Return(nil)

	mockLotteryRepo.On("CreateWinner", ctx, mock.MatchedBy(func(w *models.LotteryWinner) bool {
		return w.LotteryID == 3 &&
			w.UserID == 222 &&
			w.WinningTicketID == 12 &&
			w.TotalPot == 20000 &&
			w.GuildCut == 4000 &&
			w.Payout == 16000
	})).Return(nil)

	mockBus.On("Publish", mock.MatchedBy(func(ev events.Event) bool {
		completed, ok := ev.(events.LotteryCompletedEvent)
		return ok && completed.WinnerUserID == 222 && completed.Payout == 16000
	})).Return()

	result, err := service.CloseExpiredLottery(ctx, now)

	assert.NoError(t, err)
	assert.NotNil(t, result.Winner)
	assert.Equal(t, int64(222), result.Winner.UserID)
	// Conservation: cut plus payout equals the pot exactly
	assert.Equal(t, result.Winner.TotalPot, result.Winner.GuildCut+result.Winner.Payout)

	mockLotteryRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestLotteryService_CloseExpiredLottery_NoTickets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	mockFactory, mockUoW, mockLedgerRepo, _, _, mockLotteryRepo, mockBus := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	expired := &models.Lottery{
		ID:      4,
		EndTime: now.Add(-time.Minute),
		Status:  models.LotteryStatusActive,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(expired, nil)
	mockLotteryRepo.On("MarkCompleted", ctx, int64(4)).Return(true, nil)
	mockLotteryRepo.On("ListTickets", ctx, int64(4)).Return([]*models.LotteryTicket{}, nil)

	result, err := service.CloseExpiredLottery(ctx, now)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	// The round still completes, it just has nobody to pay
	assert.Nil(t, result.Winner)
	assert.Equal(t, models.LotteryStatusCompleted, result.Lottery.Status)

	mockLedgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockLotteryRepo.AssertNotCalled(t, "CreateWinner", mock.Anything, mock.Anything)
	mockBus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestLotteryService_CloseExpiredLottery_NotExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mockFactory, mockUoW, _, _, _, mockLotteryRepo, _ := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	active := &models.Lottery{
		ID:      3,
		EndTime: now.Add(time.Hour),
		Status:  models.LotteryStatusActive,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(active, nil)

	result, err := service.CloseExpiredLottery(ctx, now)

	assert.NoError(t, err)
	assert.Nil(t, result)
	mockLotteryRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything)
}

func TestLotteryService_CloseExpiredLottery_AlreadyClosed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	mockFactory, mockUoW, _, _, _, mockLotteryRepo, _ := newMockedUnitOfWork()
	service := NewLotteryService(mockFactory, testLotteryConfig())

	expired := &models.Lottery{
		ID:      3,
		EndTime: now.Add(-time.Minute),
		Status:  models.LotteryStatusActive,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLotteryRepo.On("GetActive", ctx).Return(expired, nil)
	// Another tick won the race to close this round
	mockLotteryRepo.On("MarkCompleted", ctx, int64(3)).Return(false, nil)

	result, err := service.CloseExpiredLottery(ctx, now)

	assert.NoError(t, err)
	assert.Nil(t, result)
	mockLotteryRepo.AssertNotCalled(t, "ListTickets", mock.Anything, mock.Anything)
}
