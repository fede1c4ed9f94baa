package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reverb/events"
	"reverb/models"
)

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) LockUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockLedgerRepository) Balance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) TotalCredited(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) TotalBalance(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

// MockPayoutRequestRepository is a mock implementation of PayoutRequestRepository
type MockPayoutRequestRepository struct {
	mock.Mock
}

func (m *MockPayoutRequestRepository) Create(ctx context.Context, request *models.PayoutRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) GetByID(ctx context.Context, id int64) (*models.PayoutRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *MockPayoutRequestRepository) PendingSum(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRequestRepository) MarkPaid(ctx context.Context, id int64, officerID int64, notes *string) (bool, error) {
	args := m.Called(ctx, id, officerID, notes)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayoutRequestRepository) MarkCancelled(ctx context.Context, id int64, userID int64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayoutRequestRepository) GetPendingByUser(ctx context.Context, userID int64) ([]*models.PayoutRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PayoutRequest), args.Error(1)
}

// MockLotteryRepository is a mock implementation of LotteryRepository
type MockLotteryRepository struct {
	mock.Mock
}

func (m *MockLotteryRepository) GetActive(ctx context.Context) (*models.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) Create(ctx context.Context, lottery *models.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockLotteryRepository) SetMessageID(ctx context.Context, lotteryID int64, messageID int64) error {
	args := m.Called(ctx, lotteryID, messageID)
	return args.Error(0)
}

func (m *MockLotteryRepository) MarkCompleted(ctx context.Context, lotteryID int64) (bool, error) {
	args := m.Called(ctx, lotteryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLotteryRepository) CreateTickets(ctx context.Context, lotteryID int64, userID int64, count int64) ([]*models.LotteryTicket, error) {
	args := m.Called(ctx, lotteryID, userID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LotteryTicket), args.Error(1)
}

func (m *MockLotteryRepository) CountTickets(ctx context.Context, lotteryID int64) (int64, error) {
	args := m.Called(ctx, lotteryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryRepository) CountTicketsByUser(ctx context.Context, lotteryID int64, userID int64) (int64, error) {
	args := m.Called(ctx, lotteryID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryRepository) ListTickets(ctx context.Context, lotteryID int64) ([]*models.LotteryTicket, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LotteryTicket), args.Error(1)
}

func (m *MockLotteryRepository) CreateWinner(ctx context.Context, winner *models.LotteryWinner) error {
	args := m.Called(ctx, winner)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	ledgerRepo  LedgerRepository
	betRepo     BetRepository
	payoutRepo  PayoutRequestRepository
	lotteryRepo LotteryRepository
	eventBus    EventPublisher
}

// SetRepositories wires the repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(ledger LedgerRepository, bets BetRepository, payouts PayoutRequestRepository, lotteries LotteryRepository, eventBus EventPublisher) {
	m.ledgerRepo = ledger
	m.betRepo = bets
	m.payoutRepo = payouts
	m.lotteryRepo = lotteries
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) PayoutRequestRepository() PayoutRequestRepository {
	return m.payoutRepo
}

func (m *MockUnitOfWork) LotteryRepository() LotteryRepository {
	return m.lotteryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
