package repositories

import (
	"context"
	"os"
	"path/filepath"
	"route-cost-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

const seedJSON = `[
  {"name": "Depot", "address": "Bhiwandi Logistics Park", "latitude": 19.2813, "longitude": 73.0483},
  {"name": "Andheri", "address": "Andheri East, Mumbai"},
  {"name": "Thane", "latitude": 19.2183, "longitude": 72.9781}
]`

func TestParseSeed(t *testing.T) {
	locs, err := ParseSeed([]byte(seedJSON))
	require.NoError(t, err)
	require.Len(t, locs, 3)

	require.Equal(t, "Depot", locs[0].Name)
	require.Equal(t, &domain.Coordinates{Lat: 19.2813, Lon: 73.0483}, locs[0].Coordinates)
	require.Nil(t, locs[1].Coordinates)
	require.Equal(t, "19.2183,72.9781", locs[2].Query())
}

func TestParseSeedRejects(t *testing.T) {
	cases := map[string]string{
		"empty name":   `[{"name": " ", "address": "x"}]`,
		"duplicate":    `[{"name": "A", "address": "x"}, {"name": "A", "address": "y"}]`,
		"half pair":    `[{"name": "A", "latitude": 1}]`,
		"no location":  `[{"name": "A"}]`,
		"out of range": `[{"name": "A", "latitude": 100, "longitude": 0}]`,
		"not an array": `{"name": "A"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(raw))
			require.Error(t, err)
		})
	}
}

func TestReadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o644))

	locs, err := ReadSeed(path)
	require.NoError(t, err)
	require.Len(t, locs, 3)

	_, err = ReadSeed(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestShippedSeedIsValid(t *testing.T) {
	locs, err := ReadSeed(filepath.Join("..", "..", "..", "data", "seeds", "locations.json"))
	require.NoError(t, err)
	require.NotEmpty(t, locs)
	for _, l := range locs {
		require.NotNil(t, l.Coordinates, l.Name)
	}
}

func TestMemoryLocationRepository(t *testing.T) {
	locs, err := ParseSeed([]byte(seedJSON))
	require.NoError(t, err)
	repo := NewMemoryLocationRepository(locs)
	ctx := context.Background()

	all, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Andheri", "Depot", "Thane"}, names(all))

	found, err := repo.FindByNames(ctx, []string{"Thane", "Depot"})
	require.NoError(t, err)
	require.Equal(t, []string{"Thane", "Depot"}, names(found))

	_, err = repo.FindByNames(ctx, []string{"Depot", "Pune"})
	require.ErrorIs(t, err, domain.ErrUnknownLocation)
}

func names(locs []domain.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.Name
	}
	return out
}
