package domain

// Ordered visiting sequence produced by the optimizer or the random baseline.
// Route starts at the pinned start location and contains every location once.
// Totals are sums of the realized arc values along Route.
type RouteSolution struct {
	Route            []string
	TotalDistanceKm  float64
	TotalTimeMinutes float64
}

const (
	metersPerKm      = 1000.0
	secondsPerMinute = 60.0
)

// NewRouteSolution converts raw meter/second sums into the reported units.
func NewRouteSolution(route []string, meters, seconds float64) *RouteSolution {
	return &RouteSolution{
		Route:            route,
		TotalDistanceKm:  meters / metersPerKm,
		TotalTimeMinutes: seconds / secondsPerMinute,
	}
}
