// models/vote.go
package models

import (
	"time"
)

// Vote is one accepted admission in the vote ledger. Rows are immutable.
//
// Round, Pair and VoteDay are denormalized from the matchup at admission
// time so the composite unique index expresses the business rule directly:
// at most one vote per (user, round, pair) per calendar day. Matchup rows
// sharing the same (round, pair) deliberately share one admission bucket.
type Vote struct {
	ID        string `json:"id" gorm:"primaryKey"`
	MatchupID string `json:"matchup_id" gorm:"not null;index"`
	MovieID   string `json:"movie_id" gorm:"not null;index"`
	UserID    string `json:"user_id" gorm:"not null;uniqueIndex:idx_vote_admission"`

	Round   int    `json:"round" gorm:"not null;uniqueIndex:idx_vote_admission"`
	Pair    int    `json:"pair" gorm:"not null;uniqueIndex:idx_vote_admission"`
	VoteDay string `json:"vote_day" gorm:"size:10;not null;uniqueIndex:idx_vote_admission"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Matchup Matchup `json:"-" gorm:"foreignKey:MatchupID"`
}

// VoteDayKey is the single place the admission-bucket day is computed.
// Change the bucket policy here if one-vote-per-matchup is ever wanted
// instead of one-vote-per-(round,pair).
func VoteDayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
