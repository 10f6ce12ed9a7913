package config

import (
	"fmt"
	"os"
	"route-cost-service/internal/domain"

	"gopkg.in/yaml.v3"
)

type fleetFile struct {
	FuelPricePerLiter  *float64                         `yaml:"fuel_price_per_liter"`
	ColdChainRatePerKm *float64                         `yaml:"cold_chain_rate_per_km"`
	Classes            map[string]domain.VehicleProfile `yaml:"classes"`
}

// LoadFleet returns domain.DefaultFleet with the overrides from the YAML file
// at path applied. An empty path returns the defaults unchanged.
//
//	fuel_price_per_liter: 92.5
//	classes:
//	  MCV: {fuel_efficiency_km_per_liter: 7.5, driver_wage: 550, maintenance_per_km: 1.6}
func LoadFleet(path string) (domain.Fleet, error) {
	fleet := domain.DefaultFleet()
	if path == "" {
		return fleet, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Fleet{}, fmt.Errorf("load fleet: read %q: %w", path, err)
	}
	return ParseFleet(raw)
}

func ParseFleet(raw []byte) (domain.Fleet, error) {
	fleet := domain.DefaultFleet()

	var f fleetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return domain.Fleet{}, fmt.Errorf("load fleet: decode yaml: %w", err)
	}

	if f.FuelPricePerLiter != nil {
		if *f.FuelPricePerLiter <= 0 {
			return domain.Fleet{}, fmt.Errorf("load fleet: fuel_price_per_liter %v: %w", *f.FuelPricePerLiter, domain.ErrInvalidCostInput)
		}
		fleet.FuelPricePerLiter = *f.FuelPricePerLiter
	}
	if f.ColdChainRatePerKm != nil {
		if *f.ColdChainRatePerKm < 0 {
			return domain.Fleet{}, fmt.Errorf("load fleet: cold_chain_rate_per_km %v: %w", *f.ColdChainRatePerKm, domain.ErrInvalidCostInput)
		}
		fleet.ColdChainRatePerKm = *f.ColdChainRatePerKm
	}

	for key, p := range f.Classes {
		class, err := domain.ParseVehicleClass(key)
		if err != nil {
			return domain.Fleet{}, fmt.Errorf("load fleet: %w", err)
		}
		if p.FuelEfficiencyKmPerLiter <= 0 || p.DriverWage < 0 || p.MaintenancePerKm < 0 {
			return domain.Fleet{}, fmt.Errorf("load fleet: class %s: %w", class, domain.ErrInvalidCostInput)
		}
		fleet.Profiles[class] = p
	}

	return fleet, nil
}
