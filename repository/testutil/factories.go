package testutil

import (
	"time"

	"reverb/models"
)

// CreateTestCredit creates a credit entry for a user with default values
func CreateTestCredit(userID int64, amount int64) *models.LedgerEntry {
	officerID := int64(900000)
	return &models.LedgerEntry{
		UserID:    userID,
		Amount:    amount,
		Reason:    models.EntryReasonCredit,
		OfficerID: &officerID,
	}
}

// CreateTestEntry creates a ledger entry with a specific reason and reference
func CreateTestEntry(userID int64, amount int64, reason models.EntryReason, referenceID string) *models.LedgerEntry {
	entry := &models.LedgerEntry{
		UserID: userID,
		Amount: amount,
		Reason: reason,
	}
	if referenceID != "" {
		entry.ReferenceID = &referenceID
	}
	return entry
}

// CreateTestBet creates a bet record with default values
func CreateTestBet(userID int64, game models.Game, wager int64, payout int64) *models.Bet {
	outcome := "heads"
	if game == models.GameWheel {
		outcome = "2x Gold!"
	}
	return &models.Bet{
		UserID:  userID,
		Game:    game,
		Wager:   wager,
		Outcome: outcome,
		Payout:  payout,
	}
}

// CreateTestPayoutRequest creates a pending payout request
func CreateTestPayoutRequest(userID int64, amount int64) *models.PayoutRequest {
	return &models.PayoutRequest{
		UserID: userID,
		Amount: amount,
	}
}

// CreateTestLottery creates a lottery spanning the given window
func CreateTestLottery(start, end time.Time) *models.Lottery {
	return &models.Lottery{
		StartTime:       start,
		EndTime:         end,
		TicketPrice:     5000,
		GuildCutPercent: 20,
	}
}
