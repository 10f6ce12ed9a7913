package distance

import (
	"context"
	"fmt"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/ports"
)

type StaticPair struct {
	From, To string
	Meters   float64
	Seconds  float64
}

// StaticDistanceProvider answers from a fixed list of directed pairs. Pairs
// not in the list are unreachable.
type StaticDistanceProvider struct {
	m map[string]ports.DistanceResult
}

var _ ports.DistanceMatrixProvider = (*StaticDistanceProvider)(nil)

func NewStaticDistanceProvider(pairs []StaticPair) *StaticDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &StaticDistanceProvider{m: m}
}

func (p *StaticDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q: %w", origin, destination, domain.ErrUnreachableLeg)
	}

	return r, nil
}

func (p *StaticDistanceProvider) GetDistances(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		if r, ok := p.m[origin+"|"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}
