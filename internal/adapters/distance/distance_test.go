package distance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/ports"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memDistanceCache is a map-backed ports.DistanceCache.
type memDistanceCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func (c *memDistanceCache) GetMany(ctx context.Context, origin string, dests []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]ports.DistanceResult{}
	for _, d := range dests {
		if r, ok := c.m[origin+"|"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memDistanceCache) PutMany(ctx context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]ports.DistanceResult{}
	}
	for d, r := range results {
		c.m[origin+"|"+d] = r
	}
	return nil
}

type fakeORS struct {
	geocodes    atomic.Int32
	matrixCalls atomic.Int32
	failFirst   atomic.Int32 // matrix calls to answer with 503
}

func (f *fakeORS) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /geocode/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodes.Add(1)
		require.Equal(t, "secret", r.Header.Get("Authorization"))
		if r.URL.Query().Get("text") == "Atlantis" {
			_, _ = w.Write([]byte(`{"features": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"features": [{"geometry": {"coordinates": [72.85, 19.05]}}]}`))
	})
	mux.HandleFunc("POST /v2/matrix/driving-hgv", func(w http.ResponseWriter, r *http.Request) {
		f.matrixCalls.Add(1)
		if f.failFirst.Load() > 0 {
			f.failFirst.Add(-1)
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []int{0}, req.Sources)

		// Every destination is 1000 m per index away; the last one is unroutable.
		dist := make([]*float64, len(req.Destinations))
		dur := make([]*float64, len(req.Destinations))
		for i, idx := range req.Destinations {
			if i == len(req.Destinations)-1 && len(req.Destinations) > 1 {
				continue
			}
			m, s := float64(idx)*1000, float64(idx)*60
			dist[i], dur[i] = &m, &s
		}
		_ = json.NewEncoder(w).Encode(matrixResponse{
			Distances: [][]*float64{dist},
			Durations: [][]*float64{dur},
		})
	})
	return mux
}

func newTestORS(t *testing.T, f *fakeORS, dc ports.DistanceCache) *ORSDistanceProvider {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	p, err := NewORSDistanceProvider(ORSOptions{
		APIKey:        "secret",
		BaseURL:       srv.URL,
		HTTPClient:    srv.Client(),
		DistanceCache: dc,
	})
	require.NoError(t, err)
	p.retryBackoff = time.Millisecond
	return p
}

func TestORSGetDistancesOmitsUnroutable(t *testing.T) {
	f := &fakeORS{}
	cache := &memDistanceCache{}
	p := newTestORS(t, f, cache)
	ctx := context.Background()

	got, err := p.GetDistances(ctx, "19.0,72.8", []string{"Bandra  West", "19.1,72.9", "19.2,73.0"})
	require.NoError(t, err)
	require.Equal(t, map[string]ports.DistanceResult{
		"Bandra West": {DistanceMeters: 1000, DurationSeconds: 60},
		"19.1,72.9":   {DistanceMeters: 2000, DurationSeconds: 120},
	}, got)
	require.EqualValues(t, 1, f.geocodes.Load(), "coordinate keys skip geocoding")

	// Both pairs now come from the cache.
	got, err = p.GetDistances(ctx, "19.0,72.8", []string{"Bandra West", "19.1,72.9"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.EqualValues(t, 1, f.matrixCalls.Load())
}

func TestORSRetriesTransientFailures(t *testing.T) {
	f := &fakeORS{}
	f.failFirst.Store(2)
	p := newTestORS(t, f, nil)

	r, err := p.GetDistance(context.Background(), "19.0,72.8", "19.1,72.9")
	require.NoError(t, err)
	require.Equal(t, 1000.0, r.DistanceMeters)
	require.EqualValues(t, 3, f.matrixCalls.Load())
}

func TestORSGivesUpAsUnavailable(t *testing.T) {
	f := &fakeORS{}
	f.failFirst.Store(10)
	p := newTestORS(t, f, nil)

	_, err := p.GetDistances(context.Background(), "19.0,72.8", []string{"19.1,72.9"})
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
	require.EqualValues(t, 4, f.matrixCalls.Load())
}

func TestORSUnknownAddress(t *testing.T) {
	p := newTestORS(t, &fakeORS{}, nil)

	_, err := p.GetDistances(context.Background(), "Atlantis", []string{"19.1,72.9"})
	require.ErrorIs(t, err, domain.ErrUnknownLocation)
}

func TestORSRequiresKey(t *testing.T) {
	_, err := NewORSDistanceProvider(ORSOptions{})
	require.Error(t, err)
}

func TestStaticDistanceProvider(t *testing.T) {
	p := NewStaticDistanceProvider([]StaticPair{
		{From: "A", To: "B", Meters: 100, Seconds: 10},
	})

	r, err := p.GetDistance(context.Background(), "A", "B")
	require.NoError(t, err)
	require.Equal(t, 100.0, r.DistanceMeters)

	_, err = p.GetDistance(context.Background(), "B", "A")
	require.ErrorIs(t, err, domain.ErrUnreachableLeg)

	got, err := p.GetDistances(context.Background(), "A", []string{"B", "C"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestHaversineDistanceProvider(t *testing.T) {
	// One degree of latitude is about 111.2 km.
	got := HaversineMeters(domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 0})
	require.InDelta(t, 111195, got, 10)

	p := NewHaversineDistanceProvider()
	r, err := p.GetDistance(context.Background(), "0,0", "1,0")
	require.NoError(t, err)
	require.InDelta(t, 111195*DefaultDetourFactor, r.DistanceMeters, 20)
	require.InDelta(t, r.DistanceMeters/DefaultTruckSpeed, r.DurationSeconds, 1e-6)

	_, err = p.GetDistances(context.Background(), "0,0", []string{"Depot Road"})
	require.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}
