package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"route-cost-service/internal/domain"
	"strings"
)

type LocationSeed struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ReadSeed parses and validates a location seed file. Every entry needs a
// unique name and either an address or a full coordinate pair.
func ReadSeed(jsonPath string) ([]domain.Location, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed locations: read %q: %w", jsonPath, err)
	}
	return ParseSeed(bytes)
}

func ParseSeed(bytes []byte) ([]domain.Location, error) {
	var data []LocationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed locations: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	out := make([]domain.Location, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("seed locations: item at index %d: name cannot be empty", i+1)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("seed locations: item at index %d: duplicate name %q", i+1, name)
		}
		seen[name] = struct{}{}

		loc := domain.Location{Name: name, Address: strings.TrimSpace(item.Address)}

		switch {
		case item.Latitude != nil && item.Longitude != nil:
			c := domain.Coordinates{Lat: *item.Latitude, Lon: *item.Longitude}
			if !c.Valid() {
				return nil, fmt.Errorf("seed locations: %q: coordinates out of range", name)
			}
			loc.Coordinates = &c
		case item.Latitude != nil || item.Longitude != nil:
			return nil, fmt.Errorf("seed locations: %q: latitude and longitude must be given together", name)
		case loc.Address == "":
			return nil, fmt.Errorf("seed locations: %q: needs an address or coordinates", name)
		}

		out = append(out, loc)
	}

	return out, nil
}

// Populate the locations table from a JSON seed file, replacing rows with
// the same name.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	if db == nil {
		return errors.New("seed locations: DB is nil")
	}

	rows, err := ReadSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO locations (name, address, lat, lon)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (name) DO UPDATE
	SET address = EXCLUDED.address,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed locations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range rows {
		var lat, lon sql.NullFloat64
		if l.Coordinates != nil {
			lat = sql.NullFloat64{Float64: l.Coordinates.Lat, Valid: true}
			lon = sql.NullFloat64{Float64: l.Coordinates.Lon, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, l.Name, l.Address, lat, lon); err != nil {
			return fmt.Errorf("seed locations: insert name=%q: %w", l.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed locations: commit tx: %w", err)
	}

	return nil
}
