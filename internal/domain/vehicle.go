package domain

import (
	"fmt"
	"strings"
)

// Vehicle class of the delivery truck used by the cost model.
type VehicleClass string

const (
	LightVehicle  VehicleClass = "LCV"
	MediumVehicle VehicleClass = "MCV"
	HeavyVehicle  VehicleClass = "HCV"
)

var vehicleAliases = map[string]VehicleClass{
	"lcv":    LightVehicle,
	"light":  LightVehicle,
	"mcv":    MediumVehicle,
	"medium": MediumVehicle,
	"hcv":    HeavyVehicle,
	"heavy":  HeavyVehicle,
}

// ParseVehicleClass accepts the class codes (LCV, MCV, HCV) and the size
// names (light, medium, heavy), case-insensitively.
func ParseVehicleClass(s string) (VehicleClass, error) {
	c, ok := vehicleAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("vehicle class %q (choose LCV, MCV or HCV): %w", s, ErrUnknownVehicleClass)
	}
	return c, nil
}

// Operating parameters of one vehicle class.
type VehicleProfile struct {
	FuelEfficiencyKmPerLiter float64 `yaml:"fuel_efficiency_km_per_liter"`
	DriverWage               float64 `yaml:"driver_wage"`
	MaintenancePerKm         float64 `yaml:"maintenance_per_km"`
}

// Fleet-wide pricing inputs for the cost model.
type Fleet struct {
	Profiles           map[VehicleClass]VehicleProfile
	FuelPricePerLiter  float64
	ColdChainRatePerKm float64
}

// DefaultFleet returns the stock profiles: diesel at 87/liter and a
// temperature-controlled cargo surcharge of 0.75/km.
func DefaultFleet() Fleet {
	return Fleet{
		Profiles: map[VehicleClass]VehicleProfile{
			LightVehicle:  {FuelEfficiencyKmPerLiter: 10, DriverWage: 400, MaintenancePerKm: 1.2},
			MediumVehicle: {FuelEfficiencyKmPerLiter: 8, DriverWage: 500, MaintenancePerKm: 1.5},
			HeavyVehicle:  {FuelEfficiencyKmPerLiter: 5, DriverWage: 600, MaintenancePerKm: 2.0},
		},
		FuelPricePerLiter:  87.0,
		ColdChainRatePerKm: 0.75,
	}
}

// Monetary evaluation of a trip distance. Monetary fields are rounded to
// two decimals; Total is rounded from the unrounded components.
type CostBreakdown struct {
	TruckType       VehicleClass
	DistanceKm      float64
	FuelCost        float64
	DriverCost      float64
	MaintenanceCost float64
	TollCost        float64
	ColdChainCost   float64
	Total           float64
}
