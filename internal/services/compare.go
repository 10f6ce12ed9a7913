package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"route-cost-service/internal/costing"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/ports"
	"route-cost-service/internal/routing"
)

// CompareRequest names the stops to visit; Start defaults to the first name.
// Seed makes the baseline order reproducible.
type CompareRequest struct {
	Names []string
	Start string
	Trip  costing.TripOptions
	Seed  *uint64
}

type PricedRoute struct {
	Route *domain.RouteSolution
	Cost  domain.CostBreakdown
}

// Savings are baseline minus optimized; positive means the optimized route
// is better.
type Savings struct {
	DistanceKm  float64
	TimeMinutes float64
	Cost        float64
}

type Comparison struct {
	Optimized PricedRoute
	Baseline  PricedRoute
	Savings   Savings
	Stats     routing.SearchStats
}

// Comparer prices an optimized route against a random visiting order over
// the same directory locations.
type Comparer struct {
	Locations ports.LocationRepository
	Provider  ports.DistanceProvider
	Solver    RouteSolver
	Cost      *costing.Model
}

func (c *Comparer) CompareRoutes(ctx context.Context, req CompareRequest) (_ *Comparison, err error) {
	defer obs.Time(ctx, "compare_routes")(&err)

	set, err := domain.NewLocationSet(req.Names)
	if err != nil {
		return nil, fmt.Errorf("compare routes: %w", err)
	}

	start := req.Start
	if start == "" {
		start = req.Names[0]
	}
	startIdx, err := set.IndexOf(start)
	if err != nil {
		return nil, fmt.Errorf("compare routes: start: %w", err)
	}

	locs, err := c.Locations.FindByNames(ctx, req.Names)
	if err != nil {
		return nil, fmt.Errorf("compare routes: %w", err)
	}
	queries := make([]string, len(locs))
	for i, l := range locs {
		queries[i] = l.Query()
	}

	dist, dur, err := BuildMatrices(ctx, c.Provider, queries)
	if err != nil {
		return nil, fmt.Errorf("compare routes: %w", err)
	}

	opt, err := c.Solver.Solve(ctx, OptimizeInput{
		Names:    req.Names,
		Distance: dist,
		Time:     dur,
		Start:    routing.StartAt(startIdx),
	})
	if err != nil {
		return nil, fmt.Errorf("compare routes: %w", err)
	}

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewPCG(*req.Seed, *req.Seed))
	}
	base, err := routing.RandomRoute(req.Names, dist, dur, startIdx, rng)
	if err != nil {
		return nil, fmt.Errorf("compare routes: baseline: %w", err)
	}

	optCost, err := c.Cost.TripCost(opt.Solution.TotalDistanceKm, req.Trip)
	if err != nil {
		return nil, fmt.Errorf("compare routes: %w", err)
	}
	baseCost, err := c.Cost.TripCost(base.TotalDistanceKm, req.Trip)
	if err != nil {
		return nil, fmt.Errorf("compare routes: %w", err)
	}

	return &Comparison{
		Optimized: PricedRoute{Route: opt.Solution, Cost: optCost},
		Baseline:  PricedRoute{Route: base, Cost: baseCost},
		Savings: Savings{
			DistanceKm:  base.TotalDistanceKm - opt.Solution.TotalDistanceKm,
			TimeMinutes: base.TotalTimeMinutes - opt.Solution.TotalTimeMinutes,
			Cost:        math.Round((baseCost.Total-optCost.Total)*100) / 100,
		},
		Stats: opt.Stats,
	}, nil
}
