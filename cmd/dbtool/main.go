package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"route-cost-service/internal/adapters/repositories"
	"route-cost-service/internal/config"
	"route-cost-service/internal/platform/db"
	"route-cost-service/internal/platform/obs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()
	obs.SetupLogger(config.Get("ENVIRONMENT", "development"), config.Get("LOG_LEVEL", "info"))
	if envErr != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	if err := initAndSeed(ctx, conn, seedPath); err != nil {
		log.Error().Err(err).Msg("dbtool failed")
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("schema ready")

	log.Info().Str("seed_path", seedPath).Msg("seeding locations")
	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().Msg("seeding complete")

	return nil
}
