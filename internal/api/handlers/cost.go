package handlers

import (
	"fmt"
	"net/http"
	"route-cost-service/internal/api/dto"
	"route-cost-service/internal/costing"
	"route-cost-service/internal/domain"
)

type CostHandler struct {
	Model *costing.Model
}

func (h *CostHandler) TripCost(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.TripCostRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	if req.DistanceKm == nil {
		writeError(w, r, http.StatusBadRequest, "distance_km is required")
		return
	}

	opts, err := tripOptions(req.TruckType, req.FuelPricePerLitre, req.Toll, req.ColdChain)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	cost, err := h.Model.TripCost(*req.DistanceKm, opts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, costResponse(cost))
}

// tripOptions rejects an explicit non-positive fuel price, which the cost
// model would otherwise read as "use the default".
func tripOptions(truckType string, fuelPrice *float64, toll float64, coldChain *bool) (costing.TripOptions, error) {
	opts := costing.TripOptions{Class: truckType, Toll: toll, ColdChain: coldChain}
	if fuelPrice != nil {
		if *fuelPrice <= 0 {
			return costing.TripOptions{}, fmt.Errorf("fuel_price_per_litre must be positive: %w", domain.ErrInvalidCostInput)
		}
		opts.FuelPricePerLiter = *fuelPrice
	}
	return opts, nil
}

func costResponse(c domain.CostBreakdown) dto.CostResponse {
	return dto.CostResponse{
		TruckType:       string(c.TruckType),
		DistanceKm:      c.DistanceKm,
		FuelCost:        c.FuelCost,
		DriverCost:      c.DriverCost,
		MaintenanceCost: c.MaintenanceCost,
		TollCost:        c.TollCost,
		ColdChainCost:   c.ColdChainCost,
		TotalTripCost:   c.Total,
	}
}
