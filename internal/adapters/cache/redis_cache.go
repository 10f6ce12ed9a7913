package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	distanceKeyPrefix = "route:distance:"
	geocodeKeyPrefix  = "route:geocode:"
)

type cachedDistance struct {
	Meters  float64 `json:"m"`
	Seconds float64 `json:"s"`
}

type cachedCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// RedisDistanceCache keeps provider results in Redis with a TTL, one JSON
// value per origin/destination pair.
type RedisDistanceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisDistanceCache(client redis.UniversalClient, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

var _ ports.DistanceCache = (*RedisDistanceCache)(nil)

func distanceKey(origin, destination string) string {
	return distanceKeyPrefix + origin + "\x1f" + destination
}

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	keys := make([]string, len(uniq))
	for i, d := range uniq {
		keys[i] = distanceKey(origin, d)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: redis mget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // miss
		}
		var cd cachedDistance
		if err := json.Unmarshal([]byte(s), &cd); err != nil {
			return nil, fmt.Errorf("get distance cache: decode %q: %w", keys[i], err)
		}
		out[uniq[i]] = ports.DistanceResult{DistanceMeters: cd.Meters, DurationSeconds: cd.Seconds}
	}

	return out, nil
}

func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.redis.PutMany")(&err)

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for dest, r := range results {
		if dest == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		data, err := json.Marshal(cachedDistance{Meters: r.DistanceMeters, Seconds: r.DurationSeconds})
		if err != nil {
			return fmt.Errorf("insert distance cache: encode: %w", err)
		}
		pipe.Set(ctx, distanceKey(origin, dest), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: redis pipeline: %w", err)
	}
	return nil
}

// RedisGeocodeCache is the Redis counterpart of SQLGeocodeCache.
type RedisGeocodeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisGeocodeCache(client redis.UniversalClient, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

var _ ports.GeocodeCache = (*RedisGeocodeCache)(nil)

func (c *RedisGeocodeCache) GetMany(ctx context.Context, addresses []string) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = geocodeKeyPrefix + a
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: redis mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var cc cachedCoordinates
		if err := json.Unmarshal([]byte(s), &cc); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", keys[i], err)
		}
		out[uniq[i]] = domain.Coordinates{Lon: cc.Lon, Lat: cc.Lat}
	}
	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if len(results) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for addr, coord := range results {
		if addr == "" {
			return errors.New("insert geocode cache: empty address key")
		}
		data, err := json.Marshal(cachedCoordinates{Lon: coord.Lon, Lat: coord.Lat})
		if err != nil {
			return fmt.Errorf("insert geocode cache: encode: %w", err)
		}
		pipe.Set(ctx, geocodeKeyPrefix+addr, data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: redis pipeline: %w", err)
	}
	return nil
}
