package services

import (
	"context"
	"errors"
	"time"

	"movie-vote-system/logging"
	"movie-vote-system/models"
	"movie-vote-system/queue"
	"movie-vote-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteEventPublisher pushes accepted votes onto the analytics queue.
// Publishing is best-effort and never affects the caller's result.
type VoteEventPublisher interface {
	PublishVoteCast(ctx context.Context, event queue.VoteCastEvent) error
}

// VoteService is the vote ledger: admission control plus the append-only
// record of accepted votes. The one business rule that matters lives here —
// at most one vote per (user, round, pair) per calendar day.
type VoteService struct {
	DB        *gorm.DB
	Loc       *time.Location
	Publisher VoteEventPublisher // optional

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewVoteService(db *gorm.DB, loc *time.Location) *VoteService {
	return &VoteService{DB: db, Loc: loc, now: time.Now}
}

// CastVote admits one vote. Preconditions run in order and fail fast:
// user, movie and matchup must resolve, the movie must be one of the
// matchup's pair, and the user must not have voted in this matchup's
// (round, pair) bucket today. On success the ledger insert and the movie's
// vote_count increment commit in one transaction; the admission unique
// index turns a concurrent double-admission into ErrAlreadyVoted.
func (s *VoteService) CastVote(ctx context.Context, userID, movieID, matchupID string) (*models.Vote, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}

	var movie models.Movie
	if err := db.First(&movie, "id = ?", movieID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMovieNotFound
		}
		return nil, err
	}

	var matchup models.Matchup
	if err := db.First(&matchup, "id = ?", matchupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMatchupNotFound
		}
		return nil, err
	}

	if movie.ID != matchup.MovieAID && movie.ID != matchup.MovieBID {
		return nil, models.ErrMovieNotInMatchup
	}

	now := s.now().In(s.Loc)
	dayStart, dayEnd := utils.DayWindow(now, s.Loc)

	// Bucketed by (round, pair), not matchup id: matchup rows sharing the
	// tuple share one daily admission.
	var prior int64
	if err := db.Model(&models.Vote{}).
		Where("user_id = ? AND round = ? AND pair = ? AND created_at >= ? AND created_at < ?",
			userID, matchup.Round, matchup.Pair, dayStart, dayEnd).
		Count(&prior).Error; err != nil {
		return nil, err
	}
	if prior > 0 {
		return nil, models.ErrAlreadyVoted
	}

	vote := &models.Vote{
		ID:        uuid.NewString(),
		MatchupID: matchup.ID,
		MovieID:   movie.ID,
		UserID:    userID,
		Round:     matchup.Round,
		Pair:      matchup.Pair,
		VoteDay:   models.VoteDayKey(now, s.Loc),
		CreatedAt: now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		// Atomic increment — read-modify-write would lose updates under
		// concurrent votes for the same movie.
		res := tx.Model(&models.Movie{}).
			Where("id = ?", movie.ID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrMovieNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent admission for the same
			// bucket; same outcome as the pre-check.
			return nil, models.ErrAlreadyVoted
		}
		return nil, err
	}

	if s.Publisher != nil {
		event := queue.VoteCastEvent{
			VoteID:    vote.ID,
			UserID:    vote.UserID,
			MovieID:   vote.MovieID,
			MatchupID: vote.MatchupID,
			Round:     vote.Round,
			Pair:      vote.Pair,
			VotedAt:   vote.CreatedAt,
		}
		if err := s.Publisher.PublishVoteCast(ctx, event); err != nil {
			logging.Log.Warnf("vote event publish failed (vote=%s): %v", vote.ID, err)
		}
	}

	return vote, nil
}
