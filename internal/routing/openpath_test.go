package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAugmentAddsFreeTerminal(t *testing.T) {
	dist := [][]float64{{0, 10, 20}, {10, 0, 15}, {20, 15, 0}}
	tm := [][]float64{{0, 60, 120}, {60, 0, 90}, {120, 90, 0}}

	p, err := BuildProblem([]string{"A", "B", "C"}, dist, tm, StartAt(1))
	require.NoError(t, err)

	g := Augment(p)
	require.Equal(t, 4, g.Size())
	require.Equal(t, 3, g.Terminal)
	require.Equal(t, 1, g.Start)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, dist[i][j], g.Distance[i][j])
			require.Equal(t, tm[i][j], g.Time[i][j])
		}
		require.Zero(t, g.Distance[i][g.Terminal])
		require.Zero(t, g.Distance[g.Terminal][i])
		require.Zero(t, g.Time[i][g.Terminal])
		require.Zero(t, g.Time[g.Terminal][i])
	}

	require.True(t, math.IsInf(g.Distance[3][3], 1))
	require.True(t, math.IsInf(g.Time[3][3], 1))
}
