// models/ranking.go
package models

import (
	"time"
)

// RankingRecord holds the per-movie trending score. One row per movie
// (find-or-create); RankingCount is a plain bump counter — rating averages
// live on Movie.VoteAverage, never here. UpdatedAt is refreshed on every
// bump and doubles as the "trending day" stamp.
type RankingRecord struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	MovieID      string    `json:"movie_id" gorm:"uniqueIndex;not null"`
	RankingCount int64     `json:"ranking_count" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"index"`

	Movie Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID"`
}
