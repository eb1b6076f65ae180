package services

import (
	"fmt"
	"testing"
	"time"

	"movie-vote-system/logging"
	"movie-vote-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory SQLite database with the
// production schema. cache=shared keeps GORM's pooled connections on the
// same database; TranslateError matches the production config so the
// admission unique index surfaces as gorm.ErrDuplicatedKey here too.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logging.BootstrapLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Movie{},
		&models.Genre{},
		&models.User{},
		&models.Matchup{},
		&models.Vote{},
		&models.RankingRecord{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Username: id, Email: id + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMovie(t *testing.T, db *gorm.DB, externalID int64, title string) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		Title:      title,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

func seedMatchup(t *testing.T, db *gorm.DB, movieA, movieB *models.Movie, round, pair int, start time.Time) *models.Matchup {
	t.Helper()
	matchup := &models.Matchup{
		ID:        uuid.NewString(),
		Round:     round,
		Pair:      pair,
		MovieAID:  movieA.ID,
		MovieBID:  movieB.ID,
		Active:    true,
		StartTime: start,
	}
	require.NoError(t, db.Create(matchup).Error)
	return matchup
}

// fixedClock pins a service's notion of "now".
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
