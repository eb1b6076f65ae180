// models/tally.go
package models

import (
	"time"
)

// MatchupResult is the query-time tally for one matchup. Percentages use
// integer truncation, so they can sum to less than 100.
type MatchupResult struct {
	MatchupID   string           `json:"matchup_id"`
	TotalVotes  int64            `json:"total_votes"`
	Counts      map[string]int64 `json:"counts"`      // movie id → votes
	Percentages map[string]int64 `json:"percentages"` // movie id → truncated %
}

// BattleSummary is one entry of a user's voting history.
type BattleSummary struct {
	MatchupID string `json:"matchup_id"`
	Round     int    `json:"round"`
	Pair      int    `json:"pair"`

	MovieA Movie `json:"movie_a"`
	MovieB Movie `json:"movie_b"`

	VotedMovieID string `json:"voted_movie_id"`

	TotalVotes  int64 `json:"total_votes"`
	MovieAVotes int64 `json:"movie_a_votes"`
	MovieBVotes int64 `json:"movie_b_votes"`
	MovieAPct   int64 `json:"movie_a_percentage"`
	MovieBPct   int64 `json:"movie_b_percentage"`

	// MovieAWon is strictly-greater; a tie counts as a loss for A.
	MovieAWon bool `json:"movie_a_won"`

	DaysAgoLabel string    `json:"days_ago_label"` // "오늘" or "N일 전"
	VotedAt      time.Time `json:"voted_at"`
}
