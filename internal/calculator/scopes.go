package calculator

import (
	"fmt"

	"CarbonCompendium/internal/model"
)

// Scope keys in ScopesResult.Shares.
const (
	Scope1 = "scope1"
	Scope2 = "scope2"
	Scope3 = "scope3"
)

// Scopes builds a GHG inventory in tCO2e: direct fuel combustion,
// purchased electricity and declared value-chain emissions.
func Scopes(in model.ScopesInput) (*model.ScopesResult, error) {
	res := &model.ScopesResult{}

	for _, f := range in.Fuels {
		factor, err := FuelFactor(f.Fuel)
		if err != nil {
			return nil, err
		}
		if err := nonNegative(f.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Fuel, err)
		}
		res.Scope1 += f.Quantity * factor / 1000
	}

	if err := nonNegative(in.ElectricityKWh, in.GridKgPerKWh); err != nil {
		return nil, fmt.Errorf("electricity: %w", err)
	}
	res.Scope2 = in.ElectricityKWh * in.GridKgPerKWh / 1000

	if len(in.Scope3) > 0 {
		res.Scope3ByCat = make(map[string]float64, len(in.Scope3))
	}
	for cat, t := range in.Scope3 {
		if err := nonNegative(t); err != nil {
			return nil, fmt.Errorf("scope 3 %s: %w", cat, err)
		}
		res.Scope3ByCat[cat] = t
		res.Scope3 += t
	}

	res.Total = res.Scope1 + res.Scope2 + res.Scope3
	res.Shares = map[string]float64{Scope1: 0, Scope2: 0, Scope3: 0}
	if res.Total > 0 {
		res.Shares[Scope1] = res.Scope1 / res.Total
		res.Shares[Scope2] = res.Scope2 / res.Total
		res.Shares[Scope3] = res.Scope3 / res.Total
	}
	return res, nil
}
