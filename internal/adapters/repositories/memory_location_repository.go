package repositories

import (
	"context"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/ports"
	"slices"
	"strings"
)

// In-memory LocationRepository used when no database is configured. It is
// read-only after construction and safe for concurrent use.
type MemoryLocationRepository struct {
	locations []domain.Location
}

func NewMemoryLocationRepository(locations []domain.Location) *MemoryLocationRepository {
	sorted := slices.Clone(locations)
	slices.SortFunc(sorted, func(a, b domain.Location) int { return strings.Compare(a.Name, b.Name) })
	return &MemoryLocationRepository{locations: sorted}
}

var _ ports.LocationRepository = (*MemoryLocationRepository)(nil)

func (m *MemoryLocationRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return slices.Clone(m.locations), nil
}

func (m *MemoryLocationRepository) FindByNames(ctx context.Context, names []string) ([]domain.Location, error) {
	return orderByNames(m.locations, names)
}
