package handlers

import (
	"math/rand/v2"
	"net/http"
	"route-cost-service/internal/api/dto"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/routing"
	"route-cost-service/internal/services"
)

type RouteHandler struct {
	Solver services.RouteSolver
}

// Optimize solves the open-path route for the posted matrices.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	res, err := h.Solver.Solve(r.Context(), optimizeInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(res.Solution))
}

// Baseline returns a random visiting order over the same request shape.
func (h *RouteHandler) Baseline(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.BaselineRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	start := req.StartIndex
	if req.Start != "" {
		set, err := domain.NewLocationSet(req.LocationNames)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if start, err = set.IndexOf(req.Start); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewPCG(*req.Seed, *req.Seed))
	}

	sol, err := routing.RandomRoute(req.LocationNames, dto.Matrix(req.DistanceMatrix), dto.Matrix(req.TimeMatrix), start, rng)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(sol))
}

func optimizeInput(req dto.OptimizeRequest) services.OptimizeInput {
	start := routing.StartAt(req.StartIndex)
	if req.Start != "" {
		start = routing.StartNamed(req.Start)
	}
	return services.OptimizeInput{
		Names:    req.LocationNames,
		Distance: dto.Matrix(req.DistanceMatrix),
		Time:     dto.Matrix(req.TimeMatrix),
		Start:    start,
	}
}

func routeResponse(s *domain.RouteSolution) dto.RouteResponse {
	return dto.RouteResponse{
		Route:            s.Route,
		TotalDistanceKm:  s.TotalDistanceKm,
		TotalTimeMinutes: s.TotalTimeMinutes,
	}
}
