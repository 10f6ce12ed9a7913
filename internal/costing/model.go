// Package costing turns a trip distance into an operating cost breakdown for
// one vehicle class.
package costing

import (
	"fmt"
	"math"
	"route-cost-service/internal/domain"
)

// TripOptions are the per-trip inputs of TripCost. Zero values select the
// defaults: medium vehicle, fleet fuel price, no toll, cold chain on.
type TripOptions struct {
	Class             string
	FuelPricePerLiter float64
	Toll              float64
	ColdChain         *bool
}

type Model struct {
	fleet domain.Fleet
}

func NewModel(fleet domain.Fleet) *Model {
	return &Model{fleet: fleet}
}

// DefaultModel prices trips with domain.DefaultFleet.
func DefaultModel() *Model {
	return NewModel(domain.DefaultFleet())
}

func (m *Model) Fleet() domain.Fleet { return m.fleet }

func (m *Model) TripCost(distanceKm float64, opts TripOptions) (domain.CostBreakdown, error) {
	class := domain.MediumVehicle
	if opts.Class != "" {
		c, err := domain.ParseVehicleClass(opts.Class)
		if err != nil {
			return domain.CostBreakdown{}, fmt.Errorf("trip cost: %w", err)
		}
		class = c
	}

	profile, ok := m.fleet.Profiles[class]
	if !ok || profile.FuelEfficiencyKmPerLiter <= 0 {
		return domain.CostBreakdown{}, fmt.Errorf("trip cost: no usable profile for %s: %w", class, domain.ErrUnknownVehicleClass)
	}

	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return domain.CostBreakdown{}, fmt.Errorf("trip cost: distance %v km: %w", distanceKm, domain.ErrInvalidCostInput)
	}
	if math.IsNaN(opts.Toll) || math.IsInf(opts.Toll, 0) || opts.Toll < 0 {
		return domain.CostBreakdown{}, fmt.Errorf("trip cost: toll %v: %w", opts.Toll, domain.ErrInvalidCostInput)
	}

	price := m.fleet.FuelPricePerLiter
	if opts.FuelPricePerLiter != 0 {
		price = opts.FuelPricePerLiter
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return domain.CostBreakdown{}, fmt.Errorf("trip cost: fuel price %v: %w", price, domain.ErrInvalidCostInput)
	}

	coldChain := opts.ColdChain == nil || *opts.ColdChain

	fuel := distanceKm / profile.FuelEfficiencyKmPerLiter * price
	driver := profile.DriverWage
	maintenance := profile.MaintenancePerKm * distanceKm
	var cold float64
	if coldChain {
		cold = m.fleet.ColdChainRatePerKm * distanceKm
	}
	total := fuel + driver + maintenance + opts.Toll + cold

	return domain.CostBreakdown{
		TruckType:       class,
		DistanceKm:      distanceKm,
		FuelCost:        round2(fuel),
		DriverCost:      round2(driver),
		MaintenanceCost: round2(maintenance),
		TollCost:        round2(opts.Toll),
		ColdChainCost:   round2(cold),
		Total:           round2(total),
	}, nil
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
