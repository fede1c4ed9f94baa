package models

import "time"

// Game identifies a wagering game
type Game string

const (
	GameCoinflip Game = "coinflip"
	GameWheel    Game = "wheel"
)

// CoinSide is a coinflip guess or result
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// Bet represents one wager record in the database. Every bet produces exactly
// one debit ledger entry and, when payout > 0, exactly one credit entry, both
// referencing the bet id.
type Bet struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Game      Game      `db:"game"`
	Wager     int64     `db:"wager"`
	Outcome   string    `db:"outcome"`
	Payout    int64     `db:"payout"`
	CreatedAt time.Time `db:"created_at"`
}

// BetResult represents the outcome of a bet (returned to the user)
type BetResult struct {
	BetID      int64
	Game       Game
	Wager      int64
	Outcome    string
	Payout     int64
	NewBalance int64
}

// Won reports whether the bet paid out anything
func (r *BetResult) Won() bool {
	return r.Payout > 0
}
