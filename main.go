package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-vote-system/config"
	"movie-vote-system/handlers"
	"movie-vote-system/logging"
	"movie-vote-system/middleware"
	"movie-vote-system/models"
	"movie-vote-system/queue"
	"movie-vote-system/services"
	"movie-vote-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logging.BootstrapLogger()

	cfg, err := config.Load()
	if err != nil {
		logging.Log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// Needed so a unique-constraint race on the vote admission key
		// surfaces as gorm.ErrDuplicatedKey instead of a driver error.
		TranslateError: true,
	})
	if err != nil {
		logging.Log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Movie{},
		&models.Genre{},
		&models.User{},
		&models.Matchup{},
		&models.Vote{},
		&models.RankingRecord{},
	); err != nil {
		logging.Log.Fatalf("failed to migrate database: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "movie-vote-system",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	matchupService := services.NewMatchupService(db, cfg.VoteLocation)
	voteService := services.NewVoteService(db, cfg.VoteLocation)
	tallyService := services.NewTallyService(db, cfg.VoteLocation)
	rankingService := services.NewRankingService(db, cfg.VoteLocation,
		rand.New(rand.NewSource(time.Now().UnixNano())))

	// Optional vote-event publishing
	if cfg.RabbitMQURL != "" {
		publisher, err := queue.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			logging.Log.Warnf("rabbitmq unavailable, vote events disabled: %v", err)
		} else {
			defer publisher.Close()
			voteService.Publisher = publisher
			logging.Log.Info("✅ Vote event publishing enabled")
		}
	}

	// Optional response cache for the derived read endpoints
	var cacheHandler fiber.Handler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cacheHandler = middleware.ResponseCache(rdb, cfg.CacheTTL)
		logging.Log.Infof("✅ Response cache enabled (redis=%s, ttl=%s)", cfg.RedisAddr, cfg.CacheTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CatalogAPIKey != "" {
		catalogWorker := workers.NewCatalogSyncWorker(db, cfg.CatalogBaseURL, cfg.CatalogAPIKey, cfg.CatalogSyncPages)
		go catalogWorker.Start(ctx, cfg.CatalogSyncInterval)
	} else {
		logging.Log.Warn("⚠️ CATALOG_API_KEY not set — catalog sync disabled")
	}

	if cfg.UserSyncBaseURL != "" {
		userWorker := workers.NewUserSyncWorker(db, cfg.UserSyncBaseURL, cfg.UserSyncToken)
		go userWorker.Start(ctx)
	} else {
		logging.Log.Warn("⚠️ USER_SYNC_URL not set — user mirror sync disabled")
	}

	matchupService.StartWindowScheduler()

	handlers.SetupMatchupRoutes(app, matchupService, tallyService, cfg.JWTSecret)
	handlers.SetupVoteRoutes(app, voteService, tallyService, cacheHandler, cfg.JWTSecret)
	handlers.SetupRankingRoutes(app, rankingService, cacheHandler, cfg.JWTSecret)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logging.Log.Errorf("server error: %v", err)
		}
	}()

	logging.Log.Infof("✅ Server running on http://localhost:%s", cfg.Port)
	logging.Log.Infof("✅ Vote timezone: %s", cfg.VoteLocation)

	<-ctx.Done()
	logging.Log.Info("Shutting down server…")
	_ = app.Shutdown()
}
