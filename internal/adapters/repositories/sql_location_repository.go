package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/ports"
)

// Postgres-backed implementation of the LocationRepository port.
type SQLLocationRepository struct{ DB *sql.DB }

func NewSQLLocationRepository(db *sql.DB) *SQLLocationRepository {
	return &SQLLocationRepository{DB: db}
}

var _ ports.LocationRepository = (*SQLLocationRepository)(nil)

func (s *SQLLocationRepository) ListLocations(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "locations.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT name, address, lat, lon
	FROM locations
	ORDER BY name;
	`)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

func (s *SQLLocationRepository) FindByNames(ctx context.Context, names []string) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "locations.FindByNames")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}
	if len(names) == 0 {
		return []domain.Location{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT name, address, lat, lon
	FROM locations
	WHERE name = ANY($1::text[]);
	`, names)
	if err != nil {
		return nil, fmt.Errorf("find locations: query locations table: %w", err)
	}
	defer rows.Close()

	found, err := scanLocations(rows)
	if err != nil {
		return nil, err
	}

	return orderByNames(found, names)
}

func scanLocations(rows *sql.Rows) ([]domain.Location, error) {
	out := make([]domain.Location, 0, 16)
	for rows.Next() {
		var l domain.Location
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&l.Name, &l.Address, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan locations: %w", err)
		}
		if lat.Valid && lon.Valid {
			l.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan locations: row iteration: %w", err)
	}
	return out, nil
}

// orderByNames returns the locations in the requested order, failing on the
// first name that is not present.
func orderByNames(found []domain.Location, names []string) ([]domain.Location, error) {
	byName := make(map[string]domain.Location, len(found))
	for _, l := range found {
		byName[l.Name] = l
	}

	out := make([]domain.Location, 0, len(names))
	for _, n := range names {
		l, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("find locations: %q: %w", n, domain.ErrUnknownLocation)
		}
		out = append(out, l)
	}
	return out, nil
}
