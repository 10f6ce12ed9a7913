package cache

import (
	"context"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Hour)
	ctx := context.Background()

	err := c.PutMany(ctx, "depot", map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1200.5, DurationSeconds: 300},
		"b": {DistanceMeters: 800, DurationSeconds: 120},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, "depot", []string{"a", " b ", "c", "a", ""})
	require.NoError(t, err)
	require.Equal(t, map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1200.5, DurationSeconds: 300},
		"b": {DistanceMeters: 800, DurationSeconds: 120},
	}, got)

	// Entries are directional.
	got, err = c.GetMany(ctx, "a", []string{"depot"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRedisDistanceCacheExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, "depot", map[string]ports.DistanceResult{"a": {DistanceMeters: 1}}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, "depot", []string{"a"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRedisDistanceCacheRejectsEmptyOrigin(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Minute)

	_, err := c.GetMany(context.Background(), "", []string{"a"})
	require.Error(t, err)
	require.Error(t, c.PutMany(context.Background(), "", map[string]ports.DistanceResult{"a": {}}))
}

func TestRedisDistanceCacheBadPayload(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Minute)

	require.NoError(t, mr.Set(distanceKey("depot", "a"), "not json"))
	_, err := c.GetMany(context.Background(), "depot", []string{"a"})
	require.ErrorContains(t, err, "decode")
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client, 0)
	ctx := context.Background()

	want := map[string]domain.Coordinates{"1 Dock Rd": {Lon: 72.8, Lat: 19.1}}
	require.NoError(t, c.PutMany(ctx, want))

	got, err := c.GetMany(ctx, []string{"1 Dock Rd", "2 Nowhere"})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestUniqueKeys(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, uniqueKeys([]string{" a", "b", "", "a "}))
}
