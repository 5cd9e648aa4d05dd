// internal/config/config.go
//
// Process configuration from the environment (.env is loaded by main via
// godotenv before Load runs). Unset or unparsable values fall back to defaults.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// MemoryDB selects the in-memory key/value store instead of SQLite.
const MemoryDB = ":memory:"

type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	PuzzlesURL   string
	PuzzlesFile  string
	CacheTTL     time.Duration
	FetchTimeout time.Duration

	PocketBaseURL        string
	PocketBaseCollection string
	PocketBaseEmail      string
	PocketBasePassword   string

	SessionSecret string
	SessionDays   int
	ClientOrigin  string
	Production    bool

	PacingScale float64
	DailySalt   string
}

// Load reads the environment.
func Load() Config {
	return Config{
		Port:     getEnv("PORT", "5175"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBPath:   getEnv("DB_PATH", "./data/connections.db"),

		PuzzlesURL:   getEnv("PUZZLES_URL", ""),
		PuzzlesFile:  getEnv("PUZZLES_FILE", ""),
		CacheTTL:     envDuration("PUZZLE_CACHE_TTL", 24*time.Hour),
		FetchTimeout: envDuration("FETCH_TIMEOUT", 10*time.Second),

		PocketBaseURL:        getEnv("POCKETBASE_URL", ""),
		PocketBaseCollection: getEnv("POCKETBASE_COLLECTION", "puzzles"),
		PocketBaseEmail:      getEnv("POCKETBASE_EMAIL", ""),
		PocketBasePassword:   getEnv("POCKETBASE_PASSWORD", ""),

		SessionSecret: getEnv("SESSION_SECRET", "dev_secret_change_me"),
		SessionDays:   envInt("SESSION_DAYS", 180),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:    os.Getenv("NODE_ENV") == "production",

		PacingScale: envFloat("ROUND_PACING_SCALE", 1.0),
		DailySalt:   getEnv("DAILY_SALT", "connections"),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid integer, using default")
		return def
	}
	return n
}

func envFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid number, using default")
		return def
	}
	return f
}

// envDuration accepts Go durations ("36h", "90s").
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}
