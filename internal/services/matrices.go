package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/ports"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentRows bounds in-flight provider requests.
const maxConcurrentRows = 5

// BuildMatrices asks the provider for every ordered pair of queries and
// returns meter and second matrices in query order. Pairs the provider
// cannot route become +Inf; the diagonal and repeated queries are 0.
func BuildMatrices(ctx context.Context, provider ports.DistanceProvider, queries []string) (distance, duration [][]float64, err error) {
	defer obs.Time(ctx, "build_matrices")(&err)

	n := len(queries)
	norm := make([]string, n)
	for i, q := range queries {
		norm[i] = strings.Join(strings.Fields(q), " ")
		if norm[i] == "" {
			return nil, nil, fmt.Errorf("build matrices: empty query at index %d: %w", i, domain.ErrInvalidLocations)
		}
	}

	distance = make([][]float64, n)
	duration = make([][]float64, n)
	for i := range distance {
		distance[i] = make([]float64, n)
		duration[i] = make([]float64, n)
		for j := range distance[i] {
			if norm[i] != norm[j] {
				distance[i][j] = math.Inf(1)
				duration[i][j] = math.Inf(1)
			}
		}
	}

	mp, hasMatrix := provider.(ports.DistanceMatrixProvider)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRows)

	// Each goroutine writes only its own row.
	for i := range norm {
		g.Go(func() error {
			targets := make([]string, 0, n-1)
			for j, q := range norm {
				if j != i && q != norm[i] {
					targets = append(targets, q)
				}
			}
			if len(targets) == 0 {
				return nil
			}

			if hasMatrix {
				results, err := mp.GetDistances(gctx, norm[i], targets)
				if err != nil {
					return fmt.Errorf("build matrices: row %q: %w", norm[i], err)
				}
				for j, q := range norm {
					if r, ok := results[q]; ok && q != norm[i] {
						distance[i][j] = r.DistanceMeters
						duration[i][j] = r.DurationSeconds
					}
				}
				return nil
			}

			for j, q := range norm {
				if q == norm[i] {
					continue
				}
				r, err := provider.GetDistance(gctx, norm[i], q)
				if errors.Is(err, domain.ErrUnreachableLeg) {
					continue
				}
				if err != nil {
					return fmt.Errorf("build matrices: %q -> %q: %w", norm[i], q, err)
				}
				distance[i][j] = r.DistanceMeters
				duration[i][j] = r.DurationSeconds
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return distance, duration, nil
}
