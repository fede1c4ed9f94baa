package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"reverb/events"
	"reverb/models"
)

// LotteryConfig carries the tunables for lottery rounds
type LotteryConfig struct {
	TicketPrice     int64
	GuildCutPercent int64
	Duration        time.Duration
	MaxTickets      int64 // per user, per lottery
}

type lotteryService struct {
	uowFactory UnitOfWorkFactory
	config     LotteryConfig

	// Ticket draw, swappable in tests; returns an index in [0, n)
	pick func(n int64) int64
}

// NewLotteryService creates a new lottery service
func NewLotteryService(uowFactory UnitOfWorkFactory, config LotteryConfig) LotteryService {
	return &lotteryService{
		uowFactory: uowFactory,
		config:     config,
		pick:       rand.Int63n,
	}
}

func (s *lotteryService) GetActiveLottery(ctx context.Context) (*models.Lottery, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	lottery, err := uow.LotteryRepository().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active lottery: %w", err)
	}

	return lottery, nil
}

func (s *lotteryService) OpenLottery(ctx context.Context, now time.Time) (*models.Lottery, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	lottery := &models.Lottery{
		StartTime:       now,
		EndTime:         now.Add(s.config.Duration),
		TicketPrice:     s.config.TicketPrice,
		GuildCutPercent: s.config.GuildCutPercent,
	}
	if err := uow.LotteryRepository().Create(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to open lottery: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return lottery, nil
}

func (s *lotteryService) SetAnnouncementMessage(ctx context.Context, lotteryID int64, messageID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.LotteryRepository().SetMessageID(ctx, lotteryID, messageID); err != nil {
		return fmt.Errorf("failed to set announcement message: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *lotteryService) BuyTickets(ctx context.Context, userID int64, amount int64) (*models.TicketPurchase, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: ticket count of %d rejected", ErrInvalidAmount, amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	lottery, err := uow.LotteryRepository().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active lottery: %w", err)
	}
	if lottery == nil {
		return nil, ErrNoActiveLottery
	}

	if err := uow.LedgerRepository().LockUser(ctx, userID); err != nil {
		return nil, err
	}

	// Cap check first: a purchase that would exceed the cap is rejected
	// whole, never trimmed to fit
	held, err := uow.LotteryRepository().CountTicketsByUser(ctx, lottery.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count user tickets: %w", err)
	}
	if held+amount > s.config.MaxTickets {
		return nil, fmt.Errorf("%w: holding %d of %d, tried to buy %d", ErrTicketLimitExceeded, held, s.config.MaxTickets, amount)
	}

	totalCost := amount * lottery.TicketPrice

	balance, err := uow.LedgerRepository().Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance < totalCost {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, totalCost)
	}

	if _, err := uow.LotteryRepository().CreateTickets(ctx, lottery.ID, userID, amount); err != nil {
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}

	// One debit for the whole purchase
	reference := lotteryReference(lottery.ID)
	debit := &models.LedgerEntry{
		UserID:      userID,
		Amount:      -totalCost,
		Reason:      models.EntryReasonLotteryTicket,
		ReferenceID: &reference,
	}
	if err := uow.LedgerRepository().Append(ctx, debit); err != nil {
		return nil, fmt.Errorf("failed to record ticket debit: %w", err)
	}

	totalTickets, err := uow.LotteryRepository().CountTickets(ctx, lottery.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TicketPurchase{
		LotteryID:     lottery.ID,
		LotteryNumber: lottery.LotteryNumber,
		Tickets:       amount,
		TotalCost:     totalCost,
		NewBalance:    balance - totalCost,
		UserTickets:   held + amount,
		TotalTickets:  totalTickets,
	}, nil
}

func (s *lotteryService) TicketsSold(ctx context.Context, lotteryID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	count, err := uow.LotteryRepository().CountTickets(ctx, lotteryID)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	return count, nil
}

func (s *lotteryService) CloseExpiredLottery(ctx context.Context, now time.Time) (*models.LotteryResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	lottery, err := uow.LotteryRepository().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active lottery: %w", err)
	}
	if lottery == nil || !lottery.Expired(now) {
		return nil, nil
	}

	// The status guard means a concurrent tick that already closed this
	// lottery leaves nothing for us to do
	closed, err := uow.LotteryRepository().MarkCompleted(ctx, lottery.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete lottery: %w", err)
	}
	if !closed {
		return nil, nil
	}
	lottery.Status = models.LotteryStatusCompleted

	tickets, err := uow.LotteryRepository().ListTickets(ctx, lottery.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	// No tickets sold is a defined terminal state, not an error
	if len(tickets) == 0 {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &models.LotteryResult{Lottery: lottery}, nil
	}

	// Draw by ticket, not by player: each ticket is equally likely, so a
	// player's win probability is proportional to their spend
	winningTicket := tickets[s.pick(int64(len(tickets)))]

	totalPot := int64(len(tickets)) * lottery.TicketPrice
	guildCut := totalPot * lottery.GuildCutPercent / 100
	payout := totalPot - guildCut

	if err := uow.LedgerRepository().LockUser(ctx, winningTicket.UserID); err != nil {
		return nil, err
	}

	reference := lotteryReference(lottery.ID)
	credit := &models.LedgerEntry{
		UserID:      winningTicket.UserID,
		Amount:      payout,
		Reason:      models.EntryReasonLotteryWin,
		ReferenceID: &reference,
	}
	if err := uow.LedgerRepository().Append(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to record lottery win: %w", err)
	}

	winner := &models.LotteryWinner{
		LotteryID:       lottery.ID,
		UserID:          winningTicket.UserID,
		WinningTicketID: winningTicket.ID,
		TotalPot:        totalPot,
		GuildCut:        guildCut,
		Payout:          payout,
	}
	if err := uow.LotteryRepository().CreateWinner(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to record lottery winner: %w", err)
	}

	uow.EventBus().Publish(events.LotteryCompletedEvent{
		LotteryID:     lottery.ID,
		LotteryNumber: lottery.LotteryNumber,
		WinnerUserID:  winner.UserID,
		TotalPot:      totalPot,
		GuildCut:      guildCut,
		Payout:        payout,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.LotteryResult{
		Lottery: lottery,
		Winner:  winner,
	}, nil
}
