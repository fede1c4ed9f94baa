package service

import "errors"

// Validation errors: bad caller input, reported synchronously, never mutate
// the ledger. The caller can recover by supplying corrected input.
var (
	// ErrInvalidAmount is returned for non-positive amounts
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance is returned when an operation would spend more
	// gold than the user's (available) balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidGuess is returned for an unrecognized coinflip guess
	ErrInvalidGuess = errors.New("guess must be heads or tails")

	// ErrSpinInProgress is returned when a user already has a wheel spin
	// running; the second spin is rejected, not queued
	ErrSpinInProgress = errors.New("wheel spin already in progress")

	// ErrPayoutNotPending is returned when settling or cancelling a request
	// that has already been processed
	ErrPayoutNotPending = errors.New("payout request already processed")

	// ErrTicketLimitExceeded is returned when a purchase would push a user
	// past the per-lottery ticket cap
	ErrTicketLimitExceeded = errors.New("lottery ticket limit exceeded")
)

// Not-found errors: the caller holds a stale reference rather than bad input
var (
	// ErrPayoutNotFound is returned for an unknown payout request id
	ErrPayoutNotFound = errors.New("payout request not found")

	// ErrNoActiveLottery is returned when no lottery is currently open
	ErrNoActiveLottery = errors.New("no active lottery")
)
