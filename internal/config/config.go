package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	ProviderBaseURL      string
	ProviderTimeoutSec   int
	RoundSeconds         int
	LowTimeSeconds       int
	RevealDelaySec       int
	SessionTTLMinutes    int
	LeaderboardBackend   string // "sqlite" or "file"
	LeaderboardPath      string
	LeaderboardSize      int
	DefaultQuestionCount int
	MaxQuestionCount     int
	PersistWorkerCount   int
	PersistQueueSize     int
	CategoryRefreshMin   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:triviarush.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		ProviderBaseURL:      envOr("PROVIDER_BASE_URL", "https://opentdb.com"),
		ProviderTimeoutSec:   envIntOr("PROVIDER_TIMEOUT_SEC", 15),
		RoundSeconds:         envIntOr("ROUND_SECONDS", 15),
		LowTimeSeconds:       envIntOr("LOW_TIME_SECONDS", 5),
		RevealDelaySec:       envIntOr("REVEAL_DELAY_SEC", 3),
		SessionTTLMinutes:    envIntOr("SESSION_TTL_MINUTES", 30),
		LeaderboardBackend:   envOr("LEADERBOARD_BACKEND", "sqlite"),
		LeaderboardPath:      envOr("LEADERBOARD_PATH", "highscores.json"),
		LeaderboardSize:      envIntOr("LEADERBOARD_SIZE", 10),
		DefaultQuestionCount: envIntOr("DEFAULT_QUESTION_COUNT", 10),
		MaxQuestionCount:     envIntOr("MAX_QUESTION_COUNT", 50),
		PersistWorkerCount:   envIntOr("PERSIST_WORKER_COUNT", 1),
		PersistQueueSize:     envIntOr("PERSIST_QUEUE_SIZE", 32),
		CategoryRefreshMin:   envIntOr("CATEGORY_REFRESH_MIN", 60),
	}
}

// Validate checks the configuration for values that would prevent the server
// from running correctly. All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, "LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
	}
	if c.ProviderBaseURL == "" {
		problems = append(problems, "PROVIDER_BASE_URL cannot be empty")
	}
	if c.ProviderTimeoutSec < 1 {
		problems = append(problems, "PROVIDER_TIMEOUT_SEC must be at least 1")
	}
	if c.RoundSeconds < 1 {
		problems = append(problems, "ROUND_SECONDS must be at least 1")
	}
	if c.LowTimeSeconds < 0 || c.LowTimeSeconds >= c.RoundSeconds {
		problems = append(problems, "LOW_TIME_SECONDS must be between 0 and ROUND_SECONDS-1")
	}
	if c.RevealDelaySec < 0 {
		problems = append(problems, "REVEAL_DELAY_SEC cannot be negative")
	}
	if c.LeaderboardBackend != "sqlite" && c.LeaderboardBackend != "file" {
		problems = append(problems, "LEADERBOARD_BACKEND must be 'sqlite' or 'file'")
	}
	if c.LeaderboardBackend == "file" && c.LeaderboardPath == "" {
		problems = append(problems, "LEADERBOARD_PATH cannot be empty when LEADERBOARD_BACKEND is 'file'")
	}
	if c.LeaderboardSize < 1 {
		problems = append(problems, "LEADERBOARD_SIZE must be at least 1")
	}
	if c.DefaultQuestionCount < 1 {
		problems = append(problems, "DEFAULT_QUESTION_COUNT must be at least 1")
	}
	if c.MaxQuestionCount < c.DefaultQuestionCount {
		problems = append(problems, "MAX_QUESTION_COUNT cannot be lower than DEFAULT_QUESTION_COUNT")
	}
	if c.PersistWorkerCount < 1 {
		problems = append(problems, "PERSIST_WORKER_COUNT must be at least 1")
	}
	if c.PersistQueueSize < 1 {
		problems = append(problems, "PERSIST_QUEUE_SIZE must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
