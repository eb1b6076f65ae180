// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the service reads from the environment.
// Optional integrations (Redis, RabbitMQ, the sync services) stay disabled
// when their settings are empty.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// VoteLocation is the single timezone used for calendar-day and
	// ISO-week boundaries. Keeping it explicit makes vote admission
	// reproducible across deployment environments.
	VoteLocation *time.Location

	// External movie catalog (ingestion worker)
	CatalogBaseURL      string
	CatalogAPIKey       string
	CatalogSyncPages    int
	CatalogSyncInterval time.Duration

	// Auth service user mirror (sync worker)
	UserSyncBaseURL string
	UserSyncToken   string

	RedisAddr   string
	CacheTTL    time.Duration
	RabbitMQURL string

	AllowedOrigins string
}

// Load reads .env (when present) and builds the Config. Only DATABASE_URL
// and JWT_SECRET are hard requirements.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getenv("PORT", "5300"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		CatalogBaseURL:      getenv("CATALOG_BASE_URL", "https://api.themoviedb.org/3"),
		CatalogAPIKey:       os.Getenv("CATALOG_API_KEY"),
		CatalogSyncPages:    atoi(getenv("CATALOG_SYNC_PAGES", "5")),
		CatalogSyncInterval: parseDur(getenv("CATALOG_SYNC_INTERVAL", "6h")),
		UserSyncBaseURL:     os.Getenv("USER_SYNC_URL"),
		UserSyncToken:       os.Getenv("USER_SYNC_TOKEN"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		CacheTTL:            parseDur(getenv("CACHE_TTL", "30s")),
		RabbitMQURL:         os.Getenv("RABBITMQ_URL"),
		AllowedOrigins:      getenv("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	tz := getenv("VOTE_TIMEZONE", "Asia/Seoul")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid VOTE_TIMEZONE %q: %w", tz, err)
	}
	cfg.VoteLocation = loc

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Minute
	}
	return d
}
