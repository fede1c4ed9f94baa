package service

import "fmt"

// Ledger reference ids correlate related entries with the record that caused
// them. The format is deliberately human-readable since officers audit the
// raw ledger.

func betReference(betID int64) string {
	return fmt.Sprintf("bet:%d", betID)
}

func payoutReference(payoutID int64) string {
	return fmt.Sprintf("payout:%d", payoutID)
}

func lotteryReference(lotteryID int64) string {
	return fmt.Sprintf("lottery:%d", lotteryID)
}
