package routing

import (
	"fmt"
	"route-cost-service/internal/domain"
)

// ExtractRoute walks the assignment from the start to the terminal and
// reports the visiting order with the realized (untruncated) distance and
// time of every traversed arc.
func ExtractRoute(g *AugmentedGraph, a *Assignment, locations *domain.LocationSet) (*domain.RouteSolution, error) {
	if a == nil || len(a.Next) != g.Size() || locations.Len() != g.Terminal {
		return nil, fmt.Errorf("extract route: assignment does not match graph: %w", domain.ErrInternalFailure)
	}

	route := make([]string, 0, locations.Len())
	seen := make([]bool, g.Size())
	var meters, seconds float64

	node := g.Start
	for node != g.Terminal {
		if node < 0 || node >= g.Size() || seen[node] {
			return nil, fmt.Errorf("extract route: invalid successor %d after %d stops: %w", node, len(route), domain.ErrInternalFailure)
		}
		seen[node] = true
		route = append(route, locations.Name(node))

		next := a.Next[node]
		if next < 0 || next >= g.Size() {
			return nil, fmt.Errorf("extract route: node %d has no successor: %w", node, domain.ErrInternalFailure)
		}
		meters += g.Distance[node][next]
		seconds += g.Time[node][next]
		node = next
	}

	if len(route) != locations.Len() {
		return nil, fmt.Errorf("extract route: visited %d of %d locations: %w", len(route), locations.Len(), domain.ErrInternalFailure)
	}

	return domain.NewRouteSolution(route, meters, seconds), nil
}
