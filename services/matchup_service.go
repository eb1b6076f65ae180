package services

import (
	"errors"
	"time"

	"movie-vote-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchupService owns the matchup registry: creating head-to-head pairings,
// looking them up, and closing their voting windows.
type MatchupService struct {
	DB  *gorm.DB
	Loc *time.Location
}

func NewMatchupService(db *gorm.DB, loc *time.Location) *MatchupService {
	return &MatchupService{DB: db, Loc: loc}
}

// CreateMatchupParams is the operator input for a new pairing.
type CreateMatchupParams struct {
	MovieAID  string
	MovieBID  string
	Round     int
	Pair      int
	StartTime time.Time
	EndTime   *time.Time
}

// Create registers a new matchup. Both movies must exist and must differ;
// the matchup starts out active.
func (s *MatchupService) Create(p CreateMatchupParams) (*models.Matchup, error) {
	if p.MovieAID == p.MovieBID {
		return nil, models.ErrSameMovie
	}

	var movies []models.Movie
	if err := s.DB.Where("id IN ?", []string{p.MovieAID, p.MovieBID}).Find(&movies).Error; err != nil {
		return nil, err
	}
	if len(movies) != 2 {
		return nil, models.ErrMovieNotFound
	}

	start := p.StartTime
	if start.IsZero() {
		start = time.Now().In(s.Loc)
	}

	matchup := &models.Matchup{
		ID:        uuid.NewString(),
		Round:     p.Round,
		Pair:      p.Pair,
		MovieAID:  p.MovieAID,
		MovieBID:  p.MovieBID,
		Active:    true,
		StartTime: start,
		EndTime:   p.EndTime,
	}
	if err := s.DB.Create(matchup).Error; err != nil {
		return nil, err
	}

	matchup.WindowOpenNow = matchup.WindowOpen(time.Now())
	return matchup, nil
}

// Get returns one matchup with both movies preloaded.
func (s *MatchupService) Get(id string) (*models.Matchup, error) {
	var matchup models.Matchup
	err := s.DB.Preload("MovieA").Preload("MovieB").First(&matchup, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrMatchupNotFound
	}
	if err != nil {
		return nil, err
	}
	matchup.WindowOpenNow = matchup.WindowOpen(time.Now())
	return &matchup, nil
}

// ListAll returns every matchup ordered by round, pair, creation time.
// The registry is small by design; there is no pagination.
func (s *MatchupService) ListAll() ([]models.Matchup, error) {
	var matchups []models.Matchup
	err := s.DB.Preload("MovieA").Preload("MovieB").
		Order("round ASC, pair ASC, created_at ASC").
		Find(&matchups).Error
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range matchups {
		matchups[i].WindowOpenNow = matchups[i].WindowOpen(now)
	}
	return matchups, nil
}

// Delete hard-deletes a matchup. A missing id is reported as not found,
// uniform with the read paths. Ledger rows referencing the matchup are kept;
// history skips votes whose matchup no longer resolves.
func (s *MatchupService) Delete(id string) error {
	res := s.DB.Delete(&models.Matchup{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrMatchupNotFound
	}
	return nil
}

// CloseExpired flips Active off on every matchup whose end time has passed.
// Called by the window scheduler; votes themselves never flip state.
func (s *MatchupService) CloseExpired(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Matchup{}).
		Where("active = ? AND end_time IS NOT NULL AND end_time <= ?", true, now).
		Update("active", false)
	return res.RowsAffected, res.Error
}
