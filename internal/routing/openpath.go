package routing

import "math"

// Solver-facing graph: the N real nodes plus a virtual terminal at index N.
type AugmentedGraph struct {
	Distance [][]float64
	Time     [][]float64
	Start    int
	Terminal int
}

// Size is the node count including the terminal.
func (g *AugmentedGraph) Size() int { return len(g.Distance) }

// Augment embeds the problem in an (N+1)×(N+1) graph. Every real node reaches
// the terminal (and is reached from it) at zero distance and zero time; the
// terminal cannot reach itself. The vehicle starts at p.Start and ends at the
// terminal, so the terminal is never an intermediate stop.
func Augment(p *Problem) *AugmentedGraph {
	n := p.Locations.Len()
	size := n + 1

	dist := make([][]float64, size)
	tm := make([][]float64, size)
	for i := 0; i < size; i++ {
		dist[i] = make([]float64, size)
		tm[i] = make([]float64, size)
		if i == n {
			continue
		}
		copy(dist[i], p.Distance.Values[i])
		copy(tm[i], p.Time.Values[i])
	}

	// Terminal row and column stay at zero; only its self-loop is closed.
	dist[n][n] = math.Inf(1)
	tm[n][n] = math.Inf(1)

	return &AugmentedGraph{Distance: dist, Time: tm, Start: p.Start, Terminal: n}
}
