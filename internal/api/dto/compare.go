package dto

type CompareRequest struct {
	Locations         []string `json:"locations"`
	Start             string   `json:"start"`
	TruckType         string   `json:"truck_type"`
	FuelPricePerLitre *float64 `json:"fuel_price_per_litre"`
	Toll              float64  `json:"toll"`
	ColdChain         *bool    `json:"cold_chain"`
	Seed              *uint64  `json:"seed"`
}

type PricedRouteResponse struct {
	RouteResponse
	Cost CostResponse `json:"cost"`
}

type SavingsResponse struct {
	DistanceKm  float64 `json:"distance_km"`
	TimeMinutes float64 `json:"time_minutes"`
	Cost        float64 `json:"cost"`
}

type CompareResponse struct {
	Optimized PricedRouteResponse `json:"optimized"`
	Baseline  PricedRouteResponse `json:"baseline"`
	Savings   SavingsResponse     `json:"savings"`
}
