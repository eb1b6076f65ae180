package services

import (
	"context"
	"errors"
	"time"

	"movie-vote-system/models"
	"movie-vote-system/utils"

	"gorm.io/gorm"
)

// TallyService computes derived vote views at query time. Nothing here is
// stored: tallies are always re-derived from ledger rows.
type TallyService struct {
	DB  *gorm.DB
	Loc *time.Location

	now func() time.Time
}

func NewTallyService(db *gorm.DB, loc *time.Location) *TallyService {
	return &TallyService{DB: db, Loc: loc, now: time.Now}
}

type movieCount struct {
	MovieID string
	Cnt     int64
}

type externalCount struct {
	ExternalID int64
	Cnt        int64
}

// TruncatedPercent derives count/total as a whole percentage with integer
// truncation (not rounding); 0 when total is 0. Truncation means a result
// set can sum to less than 100.
func TruncatedPercent(count, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return count * 100 / total
}

// ResultFor tallies one matchup: votes grouped by chosen movie, with both
// of the pairing's movies present even at zero.
func (s *TallyService) ResultFor(ctx context.Context, matchupID string) (*models.MatchupResult, error) {
	db := s.DB.WithContext(ctx)

	var matchup models.Matchup
	if err := db.First(&matchup, "id = ?", matchupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMatchupNotFound
		}
		return nil, err
	}

	var rows []movieCount
	if err := db.Model(&models.Vote{}).
		Select("movie_id, COUNT(*) AS cnt").
		Where("matchup_id = ?", matchupID).
		Group("movie_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := &models.MatchupResult{
		MatchupID:   matchupID,
		Counts:      map[string]int64{matchup.MovieAID: 0, matchup.MovieBID: 0},
		Percentages: map[string]int64{},
	}
	for _, r := range rows {
		result.Counts[r.MovieID] = r.Cnt
		result.TotalVotes += r.Cnt
	}
	for id, c := range result.Counts {
		result.Percentages[id] = TruncatedPercent(c, result.TotalVotes)
	}
	return result, nil
}

// WeeklyTotals counts this ISO week's votes per movie, keyed by the
// *external* catalog id — downstream consumers join against the catalog,
// not our surrogate ids.
func (s *TallyService) WeeklyTotals(ctx context.Context) (map[int64]int64, error) {
	weekStart, weekEnd := utils.WeekWindow(s.now(), s.Loc)

	var rows []externalCount
	err := s.DB.WithContext(ctx).Model(&models.Vote{}).
		Select("movies.external_id AS external_id, COUNT(*) AS cnt").
		Joins("JOIN movies ON movies.id = votes.movie_id").
		Where("votes.created_at >= ? AND votes.created_at < ?", weekStart, weekEnd).
		Group("movies.external_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]int64, len(rows))
	for _, r := range rows {
		totals[r.ExternalID] = r.Cnt
	}
	return totals, nil
}

// HistoryFor returns the user's voting history, newest vote first. Votes
// whose matchup no longer resolves (admin deletion) are skipped rather than
// surfaced as holes.
func (s *TallyService) HistoryFor(ctx context.Context, userID string) ([]models.BattleSummary, error) {
	db := s.DB.WithContext(ctx)
	now := s.now()

	var votes []models.Vote
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&votes).Error; err != nil {
		return nil, err
	}

	matchups := make(map[string]*models.Matchup)
	summaries := make([]models.BattleSummary, 0, len(votes))

	for _, v := range votes {
		matchup, seen := matchups[v.MatchupID]
		if !seen {
			var m models.Matchup
			err := db.Preload("MovieA").Preload("MovieB").First(&m, "id = ?", v.MatchupID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				matchups[v.MatchupID] = nil
				continue
			case err != nil:
				return nil, err
			}
			matchup = &m
			matchups[v.MatchupID] = matchup
		}
		if matchup == nil {
			continue
		}

		result, err := s.ResultFor(ctx, matchup.ID)
		if err != nil {
			return nil, err
		}
		countA := result.Counts[matchup.MovieAID]
		countB := result.Counts[matchup.MovieBID]

		summaries = append(summaries, models.BattleSummary{
			MatchupID:    matchup.ID,
			Round:        matchup.Round,
			Pair:         matchup.Pair,
			MovieA:       matchup.MovieA,
			MovieB:       matchup.MovieB,
			VotedMovieID: v.MovieID,
			TotalVotes:   result.TotalVotes,
			MovieAVotes:  countA,
			MovieBVotes:  countB,
			MovieAPct:    TruncatedPercent(countA, result.TotalVotes),
			MovieBPct:    TruncatedPercent(countB, result.TotalVotes),
			MovieAWon:    countA > countB,
			DaysAgoLabel: utils.DaysAgoLabel(matchup.StartTime, now, s.Loc),
			VotedAt:      v.CreatedAt,
		})
	}

	return summaries, nil
}
