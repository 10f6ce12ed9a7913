package distance

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/ports"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type ORSOptions struct {
	APIKey  string
	BaseURL string // default https://api.openrouteservice.org
	Profile string // default driving-hgv
	// Country restricts geocoding to one ISO country code; empty searches
	// everywhere.
	Country string
	// RatePerMinute caps outbound requests; zero disables the limiter.
	RatePerMinute int

	HTTPClient    *http.Client
	DistanceCache ports.DistanceCache
	GeocodeCache  ports.GeocodeCache
}

// ORSDistanceProvider implements DistanceMatrixProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Coordinate keys ("lat,lon") that skip geocoding
//   - Geocode and distance caching
//   - Rate-limited external API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	country       string
	limiter       *rate.Limiter
	retryBackoff  time.Duration
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

var _ ports.DistanceMatrixProvider = (*ORSDistanceProvider)(nil)

func NewORSDistanceProvider(opts ORSOptions) (*ORSDistanceProvider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		session:       opts.HTTPClient,
		apiKey:        opts.APIKey,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		profile:       opts.Profile,
		country:       opts.Country,
		retryBackoff:  200 * time.Millisecond,
		distanceCache: opts.DistanceCache,
		geocodeCache:  opts.GeocodeCache,
	}
	if provider.session == nil {
		provider.session = &http.Client{Timeout: 10 * time.Second}
	}
	if provider.baseURL == "" {
		provider.baseURL = "https://api.openrouteservice.org"
	}
	if provider.profile == "" {
		provider.profile = "driving-hgv"
	}
	if opts.RatePerMinute > 0 {
		burst := min(opts.RatePerMinute, 5)
		provider.limiter = rate.NewLimiter(rate.Limit(float64(opts.RatePerMinute)/60), burst)
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSDistanceProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Delegate to batched path to reuse caching and matrix logic.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin := o.normalize(origin)
	if normOrigin == "" {
		return ports.DistanceResult{}, errors.New("origin must be non-empty")
	}

	normDestination := o.normalize(destination)
	if normDestination == "" {
		return ports.DistanceResult{}, errors.New("destination must be non-empty")
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distances %q -> %q: %w",
			normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no route %q -> %q: %w", origin, destination, domain.ErrUnreachableLeg)
	}

	return result, nil
}

// Compute distances from a single origin to many destinations. Pairs ORS
// cannot route are omitted from the result and never cached.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := o.normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := o.normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}

		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}

	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	destinationHits := make(map[string]ports.DistanceResult)
	// Check the distance cache before issuing external API calls.
	if o.distanceCache != nil {
		hits, err := o.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			// A broken cache degrades to a miss.
			log.Warn().Err(err).Str("origin", normOrigin).Msg("distance cache read failed")
		} else {
			destinationHits = hits
		}
	}
	if len(destinationHits) > 0 {
		obs.ProviderCalls.WithLabelValues("matrix", "cache_hit").Add(float64(len(destinationHits)))
	}

	destinationMisses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := destinationHits[d]; !ok {
			destinationMisses = append(destinationMisses, d)
		}
	}

	if len(destinationMisses) == 0 {
		return destinationHits, nil
	}

	needed := make([]string, 0, 1+len(destinationMisses))
	needed = append(needed, normOrigin)
	needed = append(needed, destinationMisses...)

	coords, err := o.resolve(ctx, needed)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	originCoord := coords[normOrigin]
	destinationCoords := make([]domain.Coordinates, 0, len(destinationMisses))
	for _, d := range destinationMisses {
		destinationCoords = append(destinationCoords, coords[d])
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := o.fetchMatrixRow(ctx, originCoord, destinationMisses, destinationCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	if len(fetched) < len(destinationMisses) {
		log.Info().
			Str("origin", normOrigin).
			Int("unroutable", len(destinationMisses)-len(fetched)).
			Msg("ORS matrix left destinations unrouted")
	}

	if o.distanceCache != nil && len(fetched) > 0 {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Warn().Err(err).Msg("distance cache write failed")
		}
	}

	out := make(map[string]ports.DistanceResult, len(destinationHits)+len(fetched))
	maps.Copy(out, destinationHits)
	maps.Copy(out, fetched)

	return out, nil
}

// resolve returns coordinates for every key: "lat,lon" keys are parsed,
// addresses come from the geocode cache or the ORS geocoder.
func (o *ORSDistanceProvider) resolve(ctx context.Context, keys []string) (map[string]domain.Coordinates, error) {
	coords := make(map[string]domain.Coordinates, len(keys))
	addresses := make([]string, 0, len(keys))
	for _, k := range keys {
		if c, err := domain.ParseCoordinates(k); err == nil {
			coords[k] = c
			continue
		}
		addresses = append(addresses, k)
	}
	if len(addresses) == 0 {
		return coords, nil
	}

	geocodeHits := make(map[string]domain.Coordinates)
	// Resolve coordinates via cache before calling ORS geocoding.
	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			log.Warn().Err(err).Msg("geocode cache read failed")
		} else {
			geocodeHits = hits
		}
	}

	geocodeMisses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := geocodeHits[a]; !ok {
			geocodeMisses = append(geocodeMisses, a)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	if len(geocodeMisses) > 0 {
		var err error
		fresh, err = o.geocodeMany(ctx, geocodeMisses)
		if err != nil {
			return nil, err
		}
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	maps.Copy(coords, geocodeHits)
	maps.Copy(coords, fresh)

	for _, k := range keys {
		if _, ok := coords[k]; !ok {
			return nil, fmt.Errorf("missing coordinate for %q", k)
		}
	}
	return coords, nil
}
