package handlers

import (
	"net/http"
	"route-cost-service/internal/api/dto"
	"route-cost-service/internal/services"
)

type CompareHandler struct {
	Comparer *services.Comparer
}

// Compare resolves directory names, fetches their distances and prices the
// optimized route against a random one.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.CompareRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	opts, err := tripOptions(req.TruckType, req.FuelPricePerLitre, req.Toll, req.ColdChain)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	cmp, err := h.Comparer.CompareRoutes(r.Context(), services.CompareRequest{
		Names: req.Locations,
		Start: req.Start,
		Trip:  opts,
		Seed:  req.Seed,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CompareResponse{
		Optimized: dto.PricedRouteResponse{
			RouteResponse: routeResponse(cmp.Optimized.Route),
			Cost:          costResponse(cmp.Optimized.Cost),
		},
		Baseline: dto.PricedRouteResponse{
			RouteResponse: routeResponse(cmp.Baseline.Route),
			Cost:          costResponse(cmp.Baseline.Cost),
		},
		Savings: dto.SavingsResponse{
			DistanceKm:  cmp.Savings.DistanceKm,
			TimeMinutes: cmp.Savings.TimeMinutes,
			Cost:        cmp.Savings.Cost,
		},
	})
}
