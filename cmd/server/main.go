package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"route-cost-service/internal/adapters/cache"
	"route-cost-service/internal/adapters/distance"
	"route-cost-service/internal/adapters/repositories"
	"route-cost-service/internal/api"
	"route-cost-service/internal/config"
	"route-cost-service/internal/costing"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/db"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/ports"
	"route-cost-service/internal/routing"
	"route-cost-service/internal/services"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	obs.SetupLogger(cfg.Environment, cfg.LogLevel)
	obs.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	fleet := domain.DefaultFleet()
	if cfg.FleetPath != "" {
		f, err := config.LoadFleet(cfg.FleetPath)
		if err != nil {
			return err
		}
		fleet = f
	}

	var (
		locations     ports.LocationRepository
		distanceCache ports.DistanceCache
		geocodeCache  ports.GeocodeCache
	)

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		// Initialize schema and seed the directory on startup for local runs.
		if err := initAndSeed(ctx, conn, cfg.SeedPath); err != nil {
			return err
		}
		locations = repositories.NewSQLLocationRepository(conn)
		distanceCache = cache.NewSQLDistanceCache(conn, cfg.CacheTTL)
		geocodeCache = cache.NewSQLGeocodeCache(conn)
	} else {
		locs, err := repositories.ReadSeed(cfg.SeedPath)
		if err != nil {
			return err
		}
		log.Info().Int("locations", len(locs)).Msg("DATABASE_URL not set, using in-memory location directory")
		locations = repositories.NewMemoryLocationRepository(locs)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		// Redis takes over the hot path; Postgres stays the directory.
		distanceCache = cache.NewRedisDistanceCache(rdb, cfg.CacheTTL)
		geocodeCache = cache.NewRedisGeocodeCache(rdb, 0)
	}

	provider, err := newProvider(cfg, distanceCache, geocodeCache)
	if err != nil {
		return err
	}

	solverOpts := routing.DefaultSolverOptions()
	solverOpts.TimeLimit = cfg.SolverTimeLimit
	solverOpts.HorizonMultiplier = cfg.HorizonMultiplier
	pool := services.NewSolverPool(cfg.SolverWorkers, solverOpts)

	model := costing.NewModel(fleet)
	router := api.NewRouter(api.Deps{
		Solver:    pool,
		Cost:      model,
		Locations: locations,
		Comparer: &services.Comparer{
			Locations: locations,
			Provider:  provider,
			Solver:    pool,
			Cost:      model,
		},
	})

	// The write timeout leaves room for a full solve plus matrix acquisition.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SolverTimeLimit + 90*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Int("solver_workers", cfg.SolverWorkers).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		return errors.Join(err, pool.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

// newProvider prefers OpenRouteService and falls back to straight-line
// estimates, which only work for directory entries with coordinates.
func newProvider(cfg config.Config, dc ports.DistanceCache, gc ports.GeocodeCache) (ports.DistanceMatrixProvider, error) {
	if cfg.ORSAPIKey == "" {
		log.Warn().Msg("ORS_API_KEY not set, using haversine distance estimates")
		return distance.NewHaversineDistanceProvider(), nil
	}

	provider, err := distance.NewORSDistanceProvider(distance.ORSOptions{
		APIKey:        cfg.ORSAPIKey,
		Country:       cfg.ORSCountry,
		RatePerMinute: cfg.ORSRatePerMinute,
		DistanceCache: dc,
		GeocodeCache:  gc,
	})
	if err != nil {
		return nil, fmt.Errorf("new ORS provider: %w", err)
	}
	return provider, nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
