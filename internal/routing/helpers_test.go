package routing

import (
	"context"
	"math"
	"math/rand/v2"
	"route-cost-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var inf = math.Inf(1)

// scale multiplies every finite entry of m by k.
func scale(m [][]float64, k float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v * k
		}
	}
	return out
}

func randomMatrix(rng *rand.Rand, n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = float64(1000 + rng.IntN(9000))
			}
		}
	}
	return m
}

func testSolverOptions() SolverOptions {
	opts := DefaultSolverOptions()
	opts.TimeLimit = 5 * time.Second
	return opts
}

// solveNamed runs the full pipeline the way services.OptimizeRoute does.
func solveNamed(t *testing.T, names []string, dist, tm [][]float64, start StartRef, opts SolverOptions) (*domain.RouteSolution, SearchStats, error) {
	t.Helper()

	p, err := BuildProblem(names, dist, tm, start)
	require.NoError(t, err)

	g := Augment(p)
	a, stats, err := NewSolver(opts).Solve(context.Background(), g)
	if err != nil {
		return nil, stats, err
	}

	sol, err := ExtractRoute(g, a, p.Locations)
	require.NoError(t, err)
	return sol, stats, nil
}

// bruteForceOpenPath returns the cheapest open path cost from start over all
// (n-1)! orders.
func bruteForceOpenPath(dist [][]float64, start int) float64 {
	n := len(dist)
	rest := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != start {
			rest = append(rest, i)
		}
	}

	best := inf
	var permute func(k int)
	permute = func(k int) {
		if k == len(rest) {
			total, prev := 0.0, start
			for _, v := range rest {
				total += dist[prev][v]
				prev = v
			}
			best = math.Min(best, total)
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			permute(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	permute(0)
	return best
}

// routeTotals recomputes the totals of a named route from the raw matrices.
func routeTotals(names []string, route []string, dist, tm [][]float64) (meters, seconds float64) {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	for k := 1; k < len(route); k++ {
		a, b := idx[route[k-1]], idx[route[k]]
		meters += dist[a][b]
		seconds += tm[a][b]
	}
	return meters, seconds
}
