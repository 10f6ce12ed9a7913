package distance

import (
	"context"
	"fmt"
	"math"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/ports"
)

const (
	earthRadiusMeters = 6371000

	// DefaultDetourFactor inflates great-circle distance toward road distance.
	DefaultDetourFactor = 1.3
	// DefaultTruckSpeed is an average urban truck speed in meters per second
	// (about 30 km/h).
	DefaultTruckSpeed = 8.33
)

// HaversineDistanceProvider estimates road distance and time from
// coordinates alone. It accepts only "lat,lon" keys and needs no network,
// which makes it the fallback when no routing API key is configured.
type HaversineDistanceProvider struct {
	DetourFactor float64
	SpeedMPS     float64
}

var _ ports.DistanceMatrixProvider = (*HaversineDistanceProvider)(nil)

func NewHaversineDistanceProvider() *HaversineDistanceProvider {
	return &HaversineDistanceProvider{DetourFactor: DefaultDetourFactor, SpeedMPS: DefaultTruckSpeed}
}

func (h *HaversineDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	from, err := domain.ParseCoordinates(origin)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("haversine: origin needs coordinates: %w: %w", domain.ErrProviderUnavailable, err)
	}
	to, err := domain.ParseCoordinates(destination)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("haversine: destination needs coordinates: %w: %w", domain.ErrProviderUnavailable, err)
	}

	meters := HaversineMeters(from, to) * h.DetourFactor
	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: meters / h.SpeedMPS}, nil
}

func (h *HaversineDistanceProvider) GetDistances(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		r, err := h.GetDistance(ctx, origin, d)
		if err != nil {
			return nil, err
		}
		out[d] = r
	}
	return out, nil
}

// HaversineMeters is the great-circle distance between two points.
func HaversineMeters(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	deltaLat := toRadians(b.Lat - a.Lat)
	deltaLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
