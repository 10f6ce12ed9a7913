package routing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"route-cost-service/internal/domain"
)

// RandomRoute builds the unoptimized comparison route: the start followed by a
// uniformly shuffled order of every other location, with totals summed from
// consecutive matrix lookups.
//
// Names and matrices are validated like BuildProblem validates them, so at
// least two locations are required.
//
// A nil rng uses the process-wide source, so results differ between calls.
// Pass a seeded *rand.Rand for reproducible baselines.
func RandomRoute(names []string, distance, duration [][]float64, start int, rng *rand.Rand) (*domain.RouteSolution, error) {
	set, err := domain.NewLocationSet(names)
	if err != nil {
		return nil, fmt.Errorf("random route: %w", err)
	}
	n := set.Len()
	if start < 0 || start >= n {
		return nil, fmt.Errorf("random route: start index %d not in [0, %d): %w", start, n, domain.ErrIndexOutOfRange)
	}
	if _, err := domain.NewPairMatrix(distance, n, domain.Meters); err != nil {
		return nil, fmt.Errorf("random route: %w", err)
	}
	if _, err := domain.NewPairMatrix(duration, n, domain.Seconds); err != nil {
		return nil, fmt.Errorf("random route: %w", err)
	}

	order := make([]int, 0, n)
	order = append(order, start)
	for i := 0; i < n; i++ {
		if i != start {
			order = append(order, i)
		}
	}

	rest := order[1:]
	swap := func(i, j int) { rest[i], rest[j] = rest[j], rest[i] }
	if rng != nil {
		rng.Shuffle(len(rest), swap)
	} else {
		rand.Shuffle(len(rest), swap)
	}

	route := make([]string, n)
	var meters, seconds float64
	for k, idx := range order {
		route[k] = names[idx]
		if k == 0 {
			continue
		}
		prev := order[k-1]
		d, t := distance[prev][idx], duration[prev][idx]
		if math.IsInf(d, 1) || math.IsInf(t, 1) {
			return nil, fmt.Errorf("random route: %q -> %q: %w", names[prev], names[idx], domain.ErrUnreachableLeg)
		}
		meters += d
		seconds += t
	}

	return domain.NewRouteSolution(route, meters, seconds), nil
}
