package services

import (
	"context"
	"errors"
	"fmt"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/routing"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// OptimizeInput is one routing request: names in matrix order, raw
// meter/second matrices and the start reference.
type OptimizeInput struct {
	Names    []string
	Distance [][]float64
	Time     [][]float64
	Start    routing.StartRef
}

type OptimizeResult struct {
	Solution *domain.RouteSolution
	Stats    routing.SearchStats
}

// RouteSolver runs one optimization. SolverPool and DirectSolver implement it.
type RouteSolver interface {
	Solve(ctx context.Context, in OptimizeInput) (*OptimizeResult, error)
}

// DirectSolver solves on the caller's goroutine.
type DirectSolver struct {
	Options routing.SolverOptions
}

func (d DirectSolver) Solve(ctx context.Context, in OptimizeInput) (*OptimizeResult, error) {
	return OptimizeRoute(ctx, in, d.Options)
}

// OptimizeRoute validates the input, builds the open-path problem, searches
// and extracts the named route. Panics below this point surface as
// domain.ErrInternalFailure.
func OptimizeRoute(ctx context.Context, in OptimizeInput, opts routing.SolverOptions) (res *OptimizeResult, err error) {
	defer obs.Time(ctx, "optimize")(&err)
	defer recoverInternal(ctx, "optimize route", &err)

	p, err := routing.BuildProblem(in.Names, in.Distance, in.Time, in.Start)
	if err != nil {
		obs.SolveOutcomes.WithLabelValues(outcome(err)).Inc()
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	g := routing.Augment(p)
	a, stats, err := routing.NewSolver(opts).Solve(ctx, g)

	label := outcome(err)
	obs.SolveOutcomes.WithLabelValues(label).Inc()
	obs.SolveDuration.WithLabelValues(label).Observe(stats.Elapsed.Seconds())
	obs.SolveIterations.Observe(float64(stats.Iterations))

	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	sol, err := routing.ExtractRoute(g, a, p.Locations)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	log.Debug().
		Str("req_id", obs.RequestID(ctx)).
		Int("locations", len(in.Names)).
		Float64("distance_km", sol.TotalDistanceKm).
		Int("iterations", stats.Iterations).
		Str("stop", string(stats.StopReason)).
		Msg("route optimized")

	return &OptimizeResult{Solution: sol, Stats: stats}, nil
}

// recoverInternal turns a panic in the calling function into an
// ErrInternalFailure result. It must be deferred directly.
func recoverInternal(ctx context.Context, op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	log.Error().
		Str("req_id", obs.RequestID(ctx)).
		Str("op", op).
		Interface("panic", r).
		Bytes("stack", debug.Stack()).
		Msg("panic recovered")
	*errp = fmt.Errorf("%s: %v: %w", op, r, domain.ErrInternalFailure)
}

// outcome labels a solve result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, domain.ErrNoSolutionFound):
		return "no_solution"
	default:
		return "internal"
	}
}
