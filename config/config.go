package config

import (
	"os"
	"strconv"
	"time"

	"github.com/addisbingo/cartela-backend/game"
	"github.com/joho/godotenv"
)

// Config is everything the process reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	PrizePool   int
	Timings     game.Timings
}

// Load reads .env (if present) and the environment. Timing overrides
// exist for ops and for running the state machine fast in staging; the
// defaults are the production cadence.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "4000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		PrizePool:   getEnvInt("PRIZE_POOL", game.DefaultPrizePool),
		Timings:     game.DefaultTimings(),
	}
	if v := getEnvInt("COUNTDOWN_SECONDS", 0); v > 0 {
		cfg.Timings.CountdownSeconds = v
	}
	if v := getEnvInt("DRAW_INTERVAL_MS", 0); v > 0 {
		cfg.Timings.DrawInterval = time.Duration(v) * time.Millisecond
	}
	if v := getEnvInt("GRACE_DELAY_MS", 0); v > 0 {
		cfg.Timings.GraceDelay = time.Duration(v) * time.Millisecond
	}
	if v := getEnvInt("DESTROY_DELAY_MS", 0); v > 0 {
		cfg.Timings.DestroyDelay = time.Duration(v) * time.Millisecond
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
