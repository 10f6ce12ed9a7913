package routing

import (
	"math"
	"math/rand/v2"
	"route-cost-service/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomRouteKeepsStartAndVisitsAll(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	rng := rand.New(rand.NewPCG(1, 1))
	dist := randomMatrix(rng, len(names))
	tm := randomMatrix(rng, len(names))

	for i := 0; i < 20; i++ {
		sol, err := RandomRoute(names, dist, tm, 2, rng)
		require.NoError(t, err)
		require.Equal(t, "C", sol.Route[0])
		require.ElementsMatch(t, names, sol.Route)

		meters, seconds := routeTotals(names, sol.Route, dist, tm)
		require.InDelta(t, meters/1000, sol.TotalDistanceKm, 1e-9)
		require.InDelta(t, seconds/60, sol.TotalTimeMinutes, 1e-9)
	}
}

func TestRandomRouteIsReproducibleWithSeed(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F"}
	dist := randomMatrix(rand.New(rand.NewPCG(4, 4)), len(names))

	a, err := RandomRoute(names, dist, dist, 0, rand.New(rand.NewPCG(42, 0)))
	require.NoError(t, err)
	b, err := RandomRoute(names, dist, dist, 0, rand.New(rand.NewPCG(42, 0)))
	require.NoError(t, err)
	require.Equal(t, a.Route, b.Route)
}

func TestRandomRouteIsUniform(t *testing.T) {
	names := []string{"A", "B", "C", "D"}
	dist := [][]float64{{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 0, 1}, {1, 1, 1, 0}}
	rng := rand.New(rand.NewPCG(2024, 7))

	const trials = 6000
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		sol, err := RandomRoute(names, dist, dist, 0, rng)
		require.NoError(t, err)
		counts[strings.Join(sol.Route, "")]++
	}

	// 3! orders, 1000 expected each; the bounds sit about five standard
	// deviations out.
	require.Len(t, counts, 6)
	for order, c := range counts {
		require.InDelta(t, trials/6, c, 150, "order %s", order)
	}
}

func TestRandomRouteRejectsInvalidInput(t *testing.T) {
	dist := [][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}}
	negative := [][]float64{{0, -5000, -5000}, {-5000, 0, -5000}, {-5000, -5000, 0}}

	tests := []struct {
		name  string
		names []string
		dist  [][]float64
		tm    [][]float64
		want  error
	}{
		{"single location", []string{"A"}, [][]float64{{0}}, [][]float64{{0}}, domain.ErrInvalidLocations},
		{"duplicate names", []string{"A", "A", "A"}, dist, dist, domain.ErrInvalidLocations},
		{"empty name", []string{"A", " ", "C"}, dist, dist, domain.ErrInvalidLocations},
		{"negative distance", []string{"A", "B", "C"}, negative, dist, domain.ErrShapeMismatch},
		{"negative time", []string{"A", "B", "C"}, dist, negative, domain.ErrShapeMismatch},
		{"nan distance", []string{"A", "B", "C"}, [][]float64{{0, math.NaN(), 1}, {1, 0, 1}, {1, 1, 0}}, dist, domain.ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := RandomRoute(tt.names, tt.dist, tt.tm, 0, nil)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, sol)
		})
	}
}

func TestRandomRouteErrors(t *testing.T) {
	names := []string{"A", "B", "C"}
	dist := [][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}}

	_, err := RandomRoute(names, dist, dist, 3, nil)
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	_, err = RandomRoute(names, dist[:2], dist, 0, nil)
	require.ErrorIs(t, err, domain.ErrShapeMismatch)

	ragged := [][]float64{{0, 1}, {1, 0, 3}, {2, 3, 0}}
	_, err = RandomRoute(names, ragged, ragged, 1, rand.New(rand.NewPCG(1, 2)))
	require.ErrorIs(t, err, domain.ErrShapeMismatch)

	unreachable := [][]float64{{0, inf, inf}, {inf, 0, inf}, {inf, inf, 0}}
	_, err = RandomRoute(names, unreachable, unreachable, 0, nil)
	require.ErrorIs(t, err, domain.ErrUnreachableLeg)
}
