// Package config reads service settings from the environment (optionally
// seeded from a .env file) and the optional fleet profile file.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	LogLevel    string
	Port        string

	DatabaseURL string
	RedisURL    string
	ORSAPIKey   string
	ORSCountry  string

	SeedPath  string
	FleetPath string

	SolverTimeLimit   time.Duration
	SolverWorkers     int
	ORSRatePerMinute  int
	CacheTTL          time.Duration
	ShutdownTimeout   time.Duration
	HorizonMultiplier int
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	cfg := Config{
		Environment: Get("ENVIRONMENT", "production"),
		LogLevel:    Get("LOG_LEVEL", "info"),
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		ORSAPIKey:   strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSCountry:  strings.TrimSpace(os.Getenv("ORS_COUNTRY")),
		SeedPath:    Get("SEED_PATH", "data/seeds/locations.json"),
		FleetPath:   strings.TrimSpace(os.Getenv("FLEET_PATH")),
	}

	var err error
	if cfg.SolverTimeLimit, err = getDuration("SOLVER_TIME_LIMIT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SolverWorkers, err = getInt("SOLVER_WORKERS", runtime.NumCPU()); err != nil {
		return Config{}, err
	}
	if cfg.ORSRatePerMinute, err = getInt("ORS_RATE_PER_MINUTE", 40); err != nil {
		return Config{}, err
	}
	if cfg.HorizonMultiplier, err = getInt("SOLVER_HORIZON_MULTIPLIER", 0); err != nil {
		return Config{}, err
	}

	if cfg.SolverTimeLimit <= 0 {
		return Config{}, fmt.Errorf("config: SOLVER_TIME_LIMIT must be positive, got %s", cfg.SolverTimeLimit)
	}
	if cfg.SolverWorkers < 1 {
		return Config{}, fmt.Errorf("config: SOLVER_WORKERS must be at least 1, got %d", cfg.SolverWorkers)
	}

	return cfg, nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return n, nil
}
