package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"movie-vote-system/models"
	"movie-vote-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultTrendingLimit    = 10
	DefaultRecommendedCount = 3
)

// RankingService maintains the per-movie bump counters behind the trending
// and recommended lists. The random source is injected so sampling is
// deterministic under test; it is never used for anything cryptographic.
type RankingService struct {
	DB  *gorm.DB
	Loc *time.Location

	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

func NewRankingService(db *gorm.DB, loc *time.Location, rng *rand.Rand) *RankingService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RankingService{DB: db, Loc: loc, rng: rng, now: time.Now}
}

// Bump finds-or-creates the movie's ranking row and increments its counter
// by one, refreshing the timestamp. A single upsert statement keeps two
// concurrent bumps from creating two rows.
func (s *RankingService) Bump(ctx context.Context, movieID string) (*models.RankingRecord, error) {
	db := s.DB.WithContext(ctx)

	var movie models.Movie
	if err := db.First(&movie, "id = ?", movieID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMovieNotFound
		}
		return nil, err
	}

	now := s.now().In(s.Loc)
	record := models.RankingRecord{
		ID:           uuid.NewString(),
		MovieID:      movieID,
		RankingCount: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "movie_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"ranking_count": gorm.Expr("ranking_records.ranking_count + 1"),
			"updated_at":    now,
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	var saved models.RankingRecord
	if err := db.First(&saved, "movie_id = ?", movieID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// TrendingToday returns today's most-bumped movies: rows whose timestamp
// falls on today's calendar date, count descending. Ties break on the older
// timestamp so the order is stable.
func (s *RankingService) TrendingToday(ctx context.Context, limit int) ([]models.RankingRecord, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	dayStart, dayEnd := utils.DayWindow(s.now(), s.Loc)

	var records []models.RankingRecord
	err := s.DB.WithContext(ctx).Preload("Movie").
		Where("updated_at >= ? AND updated_at < ?", dayStart, dayEnd).
		Order("ranking_count DESC, updated_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// RecommendedSample picks n distinct ranking rows uniformly at random; when
// the table holds n rows or fewer, everything is returned.
func (s *RankingService) RecommendedSample(ctx context.Context, n int) ([]models.RankingRecord, error) {
	if n <= 0 {
		n = DefaultRecommendedCount
	}

	var records []models.RankingRecord
	err := s.DB.WithContext(ctx).Preload("Movie").
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) <= n {
		return records, nil
	}

	s.rngMu.Lock()
	perm := s.rng.Perm(len(records))
	s.rngMu.Unlock()

	sample := make([]models.RankingRecord, 0, n)
	for _, idx := range perm[:n] {
		sample = append(sample, records[idx])
	}
	return sample, nil
}
