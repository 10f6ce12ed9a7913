package dto

type TripCostRequest struct {
	DistanceKm        *float64 `json:"distance_km"`
	TruckType         string   `json:"truck_type"`
	FuelPricePerLitre *float64 `json:"fuel_price_per_litre"`
	Toll              float64  `json:"toll"`
	ColdChain         *bool    `json:"cold_chain"`
}

type CostResponse struct {
	TruckType       string  `json:"truck_type"`
	DistanceKm      float64 `json:"distance_km"`
	FuelCost        float64 `json:"fuel_cost"`
	DriverCost      float64 `json:"driver_cost"`
	MaintenanceCost float64 `json:"maintenance_cost"`
	TollCost        float64 `json:"toll_cost"`
	ColdChainCost   float64 `json:"cold_chain_cost"`
	TotalTripCost   float64 `json:"total_trip_cost"`
}
