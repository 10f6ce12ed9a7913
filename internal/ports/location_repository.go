package ports

import (
	"context"
	"route-cost-service/internal/domain"
)

// Port: the directory of named stops a comparison request can refer to.
type LocationRepository interface {
	// Retrieve every known location, ordered by name.
	ListLocations(ctx context.Context) ([]domain.Location, error)
	// Resolve names in the given order. Unknown names fail with
	// domain.ErrUnknownLocation.
	FindByNames(ctx context.Context, names []string) ([]domain.Location, error)
}
