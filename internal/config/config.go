// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port              string
	LogLevel          string
	ClientOrigin      string
	ScoreAPIURL       string
	ScoreAPITimeout   time.Duration
	ScoreboardEnabled bool
	DBPath            string
	RankingsLimit     int
	SessionIdleTTL    time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment, applying defaults.
func FromEnv() Config {
	return Config{
		Port:              GetEnv("PORT", "5175"),
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
		ClientOrigin:      GetEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		ScoreAPIURL:       GetEnv("SCORE_API_URL", ""),
		ScoreAPITimeout:   envDuration("SCORE_API_TIMEOUT", 10*time.Second),
		ScoreboardEnabled: envBool("SCOREBOARD_ENABLED", false),
		DBPath:            GetEnv("DB_PATH", "./data/flycatch.db"),
		RankingsLimit:     envInt("RANKINGS_LIMIT", 10),
		SessionIdleTTL:    envDuration("SESSION_IDLE_TTL", 30*time.Minute),
	}
}

// GetEnv returns the value of k or def if unset/empty.
func GetEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(GetEnv(k, "")); err == nil {
		return n
	}
	return def
}

func envBool(k string, def bool) bool {
	if b, err := strconv.ParseBool(GetEnv(k, "")); err == nil {
		return b
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(GetEnv(k, "")); err == nil && d > 0 {
		return d
	}
	return def
}
