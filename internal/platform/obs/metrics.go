package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated registry served on /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// SolveDuration and SolveOutcomes are labelled by outcome: ok,
	// no_solution, invalid, canceled, internal.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_solve_duration_seconds", Help: "Route search wall time in seconds.", Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60}},
		[]string{"outcome"},
	)
	SolveOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_solves_total", Help: "Route searches by outcome."},
		[]string{"outcome"},
	)
	SolveIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_solve_iterations", Help: "Guided local search rounds per solve.", Buckets: prometheus.ExponentialBuckets(1, 2, 12)},
	)
	SolverQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "route_solver_queue_depth", Help: "Solve jobs waiting for a worker."},
	)

	// ProviderCalls counts outbound distance provider requests by op
	// (geocode, matrix) and status (ok, error, cache_hit).
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_provider_calls_total", Help: "Distance provider calls by op and status."},
		[]string{"op", "status"},
	)
)

var regOnce sync.Once

// RegisterDefault registers the collectors on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SolveOutcomes)
		Registry.MustRegister(SolveIterations)
		Registry.MustRegister(SolverQueueDepth)
		Registry.MustRegister(ProviderCalls)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
