// models/matchup.go
package models

import (
	"time"
)

// Matchup is a head-to-head pairing of two movies open for voting inside a
// time window. Round and Pair are caller-supplied grouping values; the
// system does not enforce them unique together. After creation only Active
// and EndTime may change; deletion is an administrative override.
type Matchup struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Round    int    `json:"round" gorm:"not null;index:idx_matchup_round_pair"`
	Pair     int    `json:"pair" gorm:"not null;index:idx_matchup_round_pair"`
	MovieAID string `json:"movie_a_id" gorm:"not null"`
	MovieBID string `json:"movie_b_id" gorm:"not null"`

	// Matchups are created active; the window scheduler flips this off once
	// EndTime passes.
	Active    bool       `json:"active" gorm:"default:false"`
	StartTime time.Time  `json:"start_time" gorm:"not null"`
	EndTime   *time.Time `json:"end_time,omitempty"` // nil = open-ended

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	MovieA Movie `json:"movie_a,omitempty" gorm:"foreignKey:MovieAID"`
	MovieB Movie `json:"movie_b,omitempty" gorm:"foreignKey:MovieBID"`

	// Calculated field (not stored in DB)
	WindowOpenNow bool `json:"window_open" gorm:"-"`
}

// WindowOpen reports whether the matchup accepts votes at t.
func (m *Matchup) WindowOpen(t time.Time) bool {
	if !m.Active || t.Before(m.StartTime) {
		return false
	}
	if m.EndTime != nil && !t.Before(*m.EndTime) {
		return false
	}
	return true
}
