package api

import (
	"net/http"
	"route-cost-service/internal/api/handlers"
	"route-cost-service/internal/costing"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/ports"
	"route-cost-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer needs. Comparer may be nil, in
// which case /compare is not mounted.
type Deps struct {
	Solver    services.RouteSolver
	Cost      *costing.Model
	Locations ports.LocationRepository
	Comparer  *services.Comparer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Solver: deps.Solver}
	costHandler := &handlers.CostHandler{Model: deps.Cost}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/optimize", routeHandler.Optimize)
	mux.HandleFunc("/baseline", routeHandler.Baseline)
	mux.HandleFunc("/trip-cost", costHandler.TripCost)

	if deps.Locations != nil {
		locHandler := &handlers.LocationHandler{Repo: deps.Locations}
		mux.HandleFunc("/locations", locHandler.List)
	}
	if deps.Comparer != nil {
		cmpHandler := &handlers.CompareHandler{Comparer: deps.Comparer}
		mux.HandleFunc("/compare", cmpHandler.Compare)
	}

	return requestIDMiddleware(loggingMiddleware(metricsMiddleware(mux)))
}
