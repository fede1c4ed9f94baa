package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"reverb/events"
	"reverb/models"
)

type gamblingService struct {
	uowFactory UnitOfWorkFactory

	// Per-process guard: at most one wheel spin in flight per user. The
	// spin drives a multi-step animated reveal, so a second spin against
	// the same user is rejected rather than queued.
	mu          sync.Mutex
	activeSpins map[int64]struct{}

	// Draw functions, swappable in tests
	flipCoin func() models.CoinSide
	spin     func() WheelSegment
}

// NewGamblingService creates a new gambling service
func NewGamblingService(uowFactory UnitOfWorkFactory) GamblingService {
	return &gamblingService{
		uowFactory:  uowFactory,
		activeSpins: make(map[int64]struct{}),
		flipCoin:    flipCoin,
		spin:        spinWheel,
	}
}

func flipCoin() models.CoinSide {
	if rand.Intn(2) == 0 {
		return models.CoinHeads
	}
	return models.CoinTails
}

func (s *gamblingService) FlipCoin(ctx context.Context, userID int64, wager int64, guess models.CoinSide) (*models.BetResult, error) {
	if guess != models.CoinHeads && guess != models.CoinTails {
		return nil, ErrInvalidGuess
	}

	result := s.flipCoin()

	var payout int64
	if guess == result {
		payout = wager * 2
	}

	return s.placeBet(ctx, userID, models.GameCoinflip, wager, string(result), payout)
}

func (s *gamblingService) SpinWheel(ctx context.Context, userID int64, wager int64) (*models.BetResult, error) {
	// The guard brackets the whole interaction, validation included: a
	// successful spin keeps the slot held until the caller finishes the
	// reveal and calls FinishSpin, so a second spin racing the animation
	// is rejected rather than queued.
	s.mu.Lock()
	if _, active := s.activeSpins[userID]; active {
		s.mu.Unlock()
		return nil, ErrSpinInProgress
	}
	s.activeSpins[userID] = struct{}{}
	s.mu.Unlock()

	segment := s.spin()

	result, err := s.placeBet(ctx, userID, models.GameWheel, wager, segment.Label, segment.Payout(wager))
	if err != nil {
		// A rejected spin frees the slot immediately
		s.FinishSpin(userID)
		return nil, err
	}

	return result, nil
}

// FinishSpin releases the user's wheel slot after a successful spin's
// result has been presented
func (s *gamblingService) FinishSpin(userID int64) {
	s.mu.Lock()
	delete(s.activeSpins, userID)
	s.mu.Unlock()
}

// placeBet validates the wager against the user's balance and records the
// bet with its ledger entries as one atomic unit: the debit and, for a win,
// the credit either both exist or neither does.
func (s *gamblingService) placeBet(ctx context.Context, userID int64, game models.Game, wager int64, outcome string, payout int64) (*models.BetResult, error) {
	if wager <= 0 {
		return nil, fmt.Errorf("%w: wager of %d rejected", ErrInvalidAmount, wager)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Serialize against other ledger operations for this user so the
	// balance check and the entries commit as one unit
	if err := uow.LedgerRepository().LockUser(ctx, userID); err != nil {
		return nil, err
	}

	balance, err := uow.LedgerRepository().Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance < wager {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, wager)
	}

	bet := &models.Bet{
		UserID:  userID,
		Game:    game,
		Wager:   wager,
		Outcome: outcome,
		Payout:  payout,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet record: %w", err)
	}

	reference := betReference(bet.ID)

	// Deduct the wager
	debit := &models.LedgerEntry{
		UserID:      userID,
		Amount:      -wager,
		Reason:      models.EntryReasonBet,
		ReferenceID: &reference,
	}
	if err := uow.LedgerRepository().Append(ctx, debit); err != nil {
		return nil, fmt.Errorf("failed to record wager debit: %w", err)
	}

	// Apply the payout on a win
	if payout > 0 {
		credit := &models.LedgerEntry{
			UserID:      userID,
			Amount:      payout,
			Reason:      models.EntryReasonWin,
			ReferenceID: &reference,
		}
		if err := uow.LedgerRepository().Append(ctx, credit); err != nil {
			return nil, fmt.Errorf("failed to record win credit: %w", err)
		}
	}

	newBalance := balance - wager + payout

	uow.EventBus().Publish(events.BetPlacedEvent{
		UserID:     userID,
		BetID:      bet.ID,
		Game:       game,
		Wager:      wager,
		Payout:     payout,
		NewBalance: newBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BetResult{
		BetID:      bet.ID,
		Game:       game,
		Wager:      wager,
		Outcome:    outcome,
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}
