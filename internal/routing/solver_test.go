package routing

import (
	"context"
	"math/rand/v2"
	"route-cost-service/internal/domain"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSolveThreeNodes(t *testing.T) {
	names := []string{"A", "B", "C"}
	dist := [][]float64{{0, 10000, 20000}, {10000, 0, 15000}, {20000, 15000, 0}}
	tm := scale(dist, 0.1)

	sol, _, err := solveNamed(t, names, dist, tm, StartAt(0), testSolverOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, sol.Route)
	require.InDelta(t, 25.0, sol.TotalDistanceKm, 1e-9)
	require.InDelta(t, 2500.0/60, sol.TotalTimeMinutes, 1e-9)
}

func TestSolveTwoNodes(t *testing.T) {
	dist := [][]float64{{0, 1200}, {900, 0}}
	tm := [][]float64{{0, 300}, {240, 0}}

	sol, _, err := solveNamed(t, []string{"X", "Y"}, dist, tm, StartNamed("Y"), testSolverOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"Y", "X"}, sol.Route)
	require.InDelta(t, 0.9, sol.TotalDistanceKm, 1e-9)
	require.InDelta(t, 4.0, sol.TotalTimeMinutes, 1e-9)
}

func TestSolveMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	names := []string{"A", "B", "C", "D", "E", "F", "G"}

	trials := 1000
	if testing.Short() {
		trials = 100
	}
	for trial := 0; trial < trials; trial++ {
		n := 5 + rng.IntN(3)
		dist := randomMatrix(rng, n)
		tm := randomMatrix(rng, n)
		start := rng.IntN(n)

		sol, _, err := solveNamed(t, names[:n], dist, tm, StartAt(start), DefaultSolverOptions())
		require.NoError(t, err)

		want := bruteForceOpenPath(dist, start)
		require.InDelta(t, want/1000, sol.TotalDistanceKm, 1e-9, "trial %d n=%d", trial, n)
	}
}

func TestEnumerateBeatsIncumbent(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 4))
	names := []string{"A", "B", "C", "D", "E", "F"}
	dist := randomMatrix(rng, len(names))
	// Make the incumbent order expensive; the reverse order stays cheaper.
	incumbent := []int{2, 0, 1, 3, 4, 5}
	for k := 0; k+1 < len(incumbent); k++ {
		dist[incumbent[k]][incumbent[k+1]] = 20000
	}

	p, err := BuildProblem(names, dist, dist, StartAt(2))
	require.NoError(t, err)
	s, err := newSearch(context.Background(), Augment(p), testSolverOptions(), time.Now())
	require.NoError(t, err)

	got := s.enumerate(incumbent)
	require.NotNil(t, got)
	require.Equal(t, 2, got[0])

	cost, _, ok := s.evaluate(got)
	require.True(t, ok)
	require.Equal(t, int64(bruteForceOpenPath(dist, 2)), cost)

	require.Nil(t, s.enumerate(got), "optimum cannot be beaten")
}

func TestHorizonRoundsUpToWholeSeconds(t *testing.T) {
	dist := [][]float64{{0, 10, 20}, {10, 0, 15}, {20, 15, 0}}
	p, err := BuildProblem([]string{"A", "B", "C"}, dist, dist, StartAt(0))
	require.NoError(t, err)

	for h, want := range map[time.Duration]int64{
		500 * time.Millisecond:  1,
		time.Second:             1,
		1500 * time.Millisecond: 2,
	} {
		opts := testSolverOptions()
		opts.Horizon = h
		s, err := newSearch(context.Background(), Augment(p), opts, time.Now())
		require.NoError(t, err)
		require.Equal(t, want, s.horizon, "horizon %s", h)
	}
}

func TestSolveSubSecondHorizon(t *testing.T) {
	dist := [][]float64{{0, 10, 20}, {10, 0, 15}, {20, 15, 0}}
	// Every route needs exactly one second.
	tm := [][]float64{{0, 1, 1}, {1, 0, 0}, {1, 0, 0}}

	opts := testSolverOptions()
	opts.Horizon = 300 * time.Millisecond

	sol, _, err := solveNamed(t, []string{"A", "B", "C"}, dist, tm, StartAt(0), opts)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, sol.Route)
}

func TestSolveRouteIsPermutationFromStart(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	names := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9"}

	dist := randomMatrix(rng, len(names))
	tm := randomMatrix(rng, len(names))

	sol, _, err := solveNamed(t, names, dist, tm, StartAt(4), testSolverOptions())
	require.NoError(t, err)

	require.Len(t, sol.Route, len(names))
	require.Equal(t, "n4", sol.Route[0])
	require.ElementsMatch(t, names, sol.Route)

	meters, seconds := routeTotals(names, sol.Route, dist, tm)
	require.InDelta(t, meters/1000, sol.TotalDistanceKm, 1e-9)
	require.InDelta(t, seconds/60, sol.TotalTimeMinutes, 1e-9)
}

func TestSolveCompletesAfterGreedyDeadEnd(t *testing.T) {
	// Greedy goes A->B->C and then cannot reach D; D is only reachable from A.
	names := []string{"A", "B", "C", "D"}
	dist := [][]float64{
		{0, 1, 5, 5},
		{1, 0, 1, inf},
		{1, 1, 0, inf},
		{1, 1, 1, 0},
	}
	tm := scale(dist, 1)

	sol, _, err := solveNamed(t, names, dist, tm, StartAt(0), testSolverOptions())
	require.NoError(t, err)
	require.Equal(t, "D", sol.Route[1])
	require.InDelta(t, 0.007, sol.TotalDistanceKm, 1e-12)
}

func TestSolveNoFeasibleRoute(t *testing.T) {
	// Nothing leaves B or C except toward each other, and A only reaches B.
	names := []string{"A", "B", "C", "D"}
	dist := [][]float64{
		{0, 1, inf, inf},
		{inf, 0, 1, inf},
		{inf, 1, 0, inf},
		{inf, inf, inf, 0},
	}

	p, err := BuildProblem(names, dist, dist, StartAt(0))
	require.NoError(t, err)

	_, _, err = NewSolver(testSolverOptions()).Solve(context.Background(), Augment(p))
	require.ErrorIs(t, err, domain.ErrNoSolutionFound)
}

func TestSolveHorizonTooTight(t *testing.T) {
	dist := [][]float64{{0, 10, 20}, {10, 0, 15}, {20, 15, 0}}
	tm := [][]float64{{0, 10, 10}, {10, 0, 10}, {10, 10, 0}}

	opts := testSolverOptions()
	opts.Horizon = time.Second

	p, err := BuildProblem([]string{"A", "B", "C"}, dist, tm, StartAt(0))
	require.NoError(t, err)

	_, _, err = NewSolver(opts).Solve(context.Background(), Augment(p))
	require.ErrorIs(t, err, domain.ErrNoSolutionFound)
}

func TestSolveCanceledWithoutRoute(t *testing.T) {
	dist := [][]float64{
		{0, 1, inf},
		{inf, 0, inf},
		{inf, inf, 0},
	}

	p, err := BuildProblem([]string{"A", "B", "C"}, dist, dist, StartAt(0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = NewSolver(testSolverOptions()).Solve(ctx, Augment(p))
	require.ErrorIs(t, err, domain.ErrNoSolutionFound)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSolveTruncatesArcCosts(t *testing.T) {
	// A->B->C costs 3.8 m and A->C->B costs 2.0 m, but both truncate to 2.
	// The search cannot tell them apart and keeps the greedy route; totals
	// are still reported from the untruncated matrix.
	names := []string{"A", "B", "C"}
	dist := [][]float64{
		{0, 1.9, 1.0},
		{1.9, 0, 1.9},
		{1.0, 1.0, 0},
	}

	sol, _, err := solveNamed(t, names, dist, dist, StartAt(0), testSolverOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, sol.Route)
	require.InDelta(t, 0.0038, sol.TotalDistanceKm, 1e-12)
}

func TestSolveAsymmetric(t *testing.T) {
	names := []string{"A", "B", "C", "D"}
	dist := [][]float64{
		{0, 100, 900, 900},
		{900, 0, 100, 900},
		{900, 900, 0, 100},
		{100, 900, 900, 0},
	}

	sol, _, err := solveNamed(t, names, dist, dist, StartAt(0), testSolverOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C", "D"}, sol.Route)
	require.InDelta(t, 0.3, sol.TotalDistanceKm, 1e-12)

	// Starting at B the cheap chain wraps: B, C, D, A.
	sol, _, err = solveNamed(t, names, dist, dist, StartNamed("B"), testSolverOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C", "D", "A"}, sol.Route)
}

func TestSolveGreedyDescentStopsEarly(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	names := []string{"A", "B", "C", "D", "E"}
	dist := randomMatrix(rng, len(names))

	opts := testSolverOptions()
	opts.Metaheuristic = GreedyDescent

	p, err := BuildProblem(names, dist, dist, StartAt(0))
	require.NoError(t, err)

	a, stats, err := NewSolver(opts).Solve(context.Background(), Augment(p))
	require.NoError(t, err)
	require.Zero(t, stats.Iterations)
	require.Equal(t, StopConverged, stats.StopReason)
	require.LessOrEqual(t, stats.BestCost, stats.InitialCost)
	require.Equal(t, -1, a.Next[len(names)])
	require.Equal(t, len(names), slices.Max(a.Next))
}

func TestSolveRespectsTimeLimit(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	names := make([]string, 60)
	for i := range names {
		names[i] = string(rune('a'+i%26)) + string(rune('A'+i/26))
	}
	dist := randomMatrix(rng, len(names))

	opts := testSolverOptions()
	opts.TimeLimit = 200 * time.Millisecond
	opts.StallIterations = 1 << 30

	p, err := BuildProblem(names, dist, dist, StartAt(0))
	require.NoError(t, err)

	began := time.Now()
	_, stats, err := NewSolver(opts).Solve(context.Background(), Augment(p))
	require.NoError(t, err)
	require.Less(t, time.Since(began), 3*time.Second)
	require.LessOrEqual(t, stats.BestCost, stats.InitialCost)
}

func TestNewSolverFillsDefaults(t *testing.T) {
	opts := NewSolver(SolverOptions{}).Options()
	require.Equal(t, 30*time.Second, opts.TimeLimit)
	require.Equal(t, 100, opts.StallIterations)
	require.Equal(t, 0.1, opts.LambdaCoefficient)
	require.Equal(t, GuidedLocalSearch, opts.Metaheuristic)
}
