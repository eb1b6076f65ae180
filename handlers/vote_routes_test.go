package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movie-vote-system/logging"
	"movie-vote-system/models"
	"movie-vote-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type voteFixture struct {
	app *fiber.App
	db  *gorm.DB
}

func setupVoteApp(t *testing.T) *voteFixture {
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
		&models.Movie{}, &models.Genre{}, &models.User{},
		&models.Matchup{}, &models.Vote{}, &models.RankingRecord{},
	))

	voteService := services.NewVoteService(db, time.UTC)
	tallyService := services.NewTallyService(db, time.UTC)
	matchupService := services.NewMatchupService(db, time.UTC)

	app := fiber.New()
	SetupVoteRoutes(app, voteService, tallyService, nil, testSecret)
	SetupMatchupRoutes(app, matchupService, tallyService, testSecret)

	return &voteFixture{app: app, db: db}
}

func signToken(t *testing.T, sub, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func jsonRequest(method, path, token string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (f *voteFixture) seedPairing(t *testing.T) (*models.Movie, *models.Movie, *models.Matchup) {
	t.Helper()
	movieA := &models.Movie{ID: uuid.NewString(), ExternalID: 1, Title: "Movie A"}
	movieB := &models.Movie{ID: uuid.NewString(), ExternalID: 2, Title: "Movie B"}
	require.NoError(t, f.db.Create(movieA).Error)
	require.NoError(t, f.db.Create(movieB).Error)
	matchup := &models.Matchup{
		ID: uuid.NewString(), Round: 1, Pair: 1,
		MovieAID: movieA.ID, MovieBID: movieB.ID,
		Active: true, StartTime: time.Now(),
	}
	require.NoError(t, f.db.Create(matchup).Error)
	return movieA, movieB, matchup
}

func TestCastVoteEndpoint(t *testing.T) {
	f := setupVoteApp(t)
	movieA, _, matchup := f.seedPairing(t)
	require.NoError(t, f.db.Create(&models.User{ID: "alice", Username: "alice"}).Error)

	token := signToken(t, "alice", "user")
	body := CastVoteRequest{MovieID: movieA.ID, MatchupID: matchup.ID}

	// No token → 401, nothing recorded.
	resp, err := f.app.Test(jsonRequest("POST", "/votes", "", body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = f.app.Test(jsonRequest("POST", "/votes", token, body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var vote models.Vote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vote))
	assert.Equal(t, "alice", vote.UserID)
	assert.Equal(t, movieA.ID, vote.MovieID)

	// Second vote the same day → 409, a business outcome not a fault.
	resp, err = f.app.Test(jsonRequest("POST", "/votes", token, body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Unknown matchup → 404.
	resp, err = f.app.Test(jsonRequest("POST", "/votes", token,
		CastVoteRequest{MovieID: movieA.ID, MatchupID: uuid.NewString()}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Missing fields fail validation before touching the ledger.
	resp, err = f.app.Test(jsonRequest("POST", "/votes", token, CastVoteRequest{}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMatchupResultEndpoint(t *testing.T) {
	f := setupVoteApp(t)
	movieA, movieB, matchup := f.seedPairing(t)
	require.NoError(t, f.db.Create(&models.User{ID: "alice", Username: "alice"}).Error)

	token := signToken(t, "alice", "user")
	resp, err := f.app.Test(jsonRequest("POST", "/votes", token,
		CastVoteRequest{MovieID: movieA.ID, MatchupID: matchup.ID}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = f.app.Test(jsonRequest("GET", "/matchups/"+matchup.ID+"/result", "", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result models.MatchupResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(1), result.TotalVotes)
	assert.Equal(t, int64(1), result.Counts[movieA.ID])
	assert.Equal(t, int64(0), result.Counts[movieB.ID])
	assert.Equal(t, int64(100), result.Percentages[movieA.ID])
}

func TestMatchupAdminEndpoints(t *testing.T) {
	f := setupVoteApp(t)
	movieA, movieB, _ := f.seedPairing(t)

	createBody := CreateMatchupRequest{
		MovieAID: movieA.ID, MovieBID: movieB.ID, Round: 2, Pair: 1,
	}

	// Plain users cannot touch the registry.
	userToken := signToken(t, "alice", "user")
	resp, err := f.app.Test(jsonRequest("POST", "/matchups", userToken, createBody))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	adminToken := signToken(t, "root", "admin")
	resp, err = f.app.Test(jsonRequest("POST", "/matchups", adminToken, createBody))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Matchup
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.True(t, created.Active)

	resp, err = f.app.Test(jsonRequest("DELETE", "/matchups/"+created.ID, adminToken, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = f.app.Test(jsonRequest("DELETE", "/matchups/"+created.ID, adminToken, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
