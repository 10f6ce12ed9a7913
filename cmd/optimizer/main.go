// Command optimizer reads one optimize request as JSON on stdin and writes
// the route, or {"error": ...}, on stdout. It always exits 0 once a response
// has been written so callers only need to parse stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"route-cost-service/internal/api/dto"
	"route-cost-service/internal/api/handlers"
	"route-cost-service/internal/config"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/routing"
	"route-cost-service/internal/services"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	timeLimit := flag.Duration("time-limit", 30*time.Second, "wall-clock budget for the search")
	horizon := flag.Int("horizon-multiplier", 0, "time horizon as a multiple of the longest arc (0 = N+1)")
	flag.Parse()

	// Logs go to stderr so stdout carries only the response.
	obs.SetupLogger(config.Get("ENVIRONMENT", "production"), config.Get("LOG_LEVEL", "warn"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := routing.DefaultSolverOptions()
	opts.TimeLimit = *timeLimit
	opts.HorizonMultiplier = *horizon

	if err := run(ctx, os.Stdin, os.Stdout, opts); err != nil {
		log.Error().Err(err).Msg("write response")
		os.Exit(1)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// run only fails when the response itself cannot be written.
func run(ctx context.Context, in io.Reader, out io.Writer, opts routing.SolverOptions) error {
	enc := json.NewEncoder(out)

	var req dto.OptimizeRequest
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return enc.Encode(errorResponse{Error: "invalid json input: " + err.Error()})
	}

	start := routing.StartAt(req.StartIndex)
	if req.Start != "" {
		start = routing.StartNamed(req.Start)
	}

	res, err := services.OptimizeRoute(ctx, services.OptimizeInput{
		Names:    req.LocationNames,
		Distance: dto.Matrix(req.DistanceMatrix),
		Time:     dto.Matrix(req.TimeMatrix),
		Start:    start,
	}, opts)
	if err != nil {
		_, msg := handlers.StatusFor(err)
		return enc.Encode(errorResponse{Error: msg})
	}

	return enc.Encode(routeResponse(res.Solution))
}

func routeResponse(s *domain.RouteSolution) dto.RouteResponse {
	return dto.RouteResponse{
		Route:            s.Route,
		TotalDistanceKm:  s.TotalDistanceKm,
		TotalTimeMinutes: s.TotalTimeMinutes,
	}
}
