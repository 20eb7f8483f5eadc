package calculator

import (
	"fmt"
	"strings"

	"CarbonCompendium/internal/model"
)

// Combustion factors in kg CO2 per litre, natural gas per m³.
var fuelFactors = map[string]float64{
	"diesel":      2.68,
	"petrol":      2.31,
	"lpg":         1.51,
	"natural_gas": 2.02,
}

// FuelFactor returns the combustion factor for a fuel name.
func FuelFactor(fuel string) (float64, error) {
	f, ok := fuelFactors[strings.ToLower(strings.TrimSpace(fuel))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFuel, fuel)
	}
	return f, nil
}

// EVCharging compares driving a distance electrically with an ICE car.
// Charger losses inflate the energy drawn from the grid.
func EVCharging(in model.EVChargingInput) (*model.EVChargingResult, error) {
	if err := nonNegative(in.DistanceKm, in.EVKWhPer100Km, in.GridKgPerKWh, in.ICELitresPer100Km); err != nil {
		return nil, err
	}
	if in.ChargerLossPercent < 0 || in.ChargerLossPercent >= 100 {
		return nil, ErrInvalidPercent
	}
	fuel := in.ICEFuel
	if fuel == "" {
		fuel = "petrol"
	}
	factor, err := FuelFactor(fuel)
	if err != nil {
		return nil, err
	}

	atBattery := in.DistanceKm * in.EVKWhPer100Km / 100
	res := &model.EVChargingResult{
		ChargingKWh: atBattery / (1 - in.ChargerLossPercent/100),
		ICELitres:   in.DistanceKm * in.ICELitresPer100Km / 100,
	}
	res.EVEmissionsKg = res.ChargingKWh * in.GridKgPerKWh
	res.ICEEmissionsKg = res.ICELitres * factor
	res.AvoidedKg = res.ICEEmissionsKg - res.EVEmissionsKg
	return res, nil
}

// Fleet computes the annual footprint of a fleet and the saving from
// cutting fuel use by ImprovementPercent.
func Fleet(in model.FleetInput) (*model.FleetResult, error) {
	if in.ImprovementPercent < 0 || in.ImprovementPercent > 100 {
		return nil, ErrInvalidPercent
	}
	res := &model.FleetResult{Classes: make([]model.VehicleClassResult, 0, len(in.Classes))}
	for _, c := range in.Classes {
		if c.Count < 0 {
			return nil, fmt.Errorf("%s: %w", c.Name, ErrNegativeInput)
		}
		if err := nonNegative(c.AnnualKm, c.LitresPer100Km); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		factor, err := FuelFactor(c.Fuel)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		km := float64(c.Count) * c.AnnualKm
		litres := km * c.LitresPer100Km / 100
		cr := model.VehicleClassResult{
			Name:      c.Name,
			Km:        km,
			Litres:    litres,
			CO2Tonnes: litres * factor / 1000,
		}
		if km > 0 {
			cr.GramsPerKm = cr.CO2Tonnes * 1e6 / km
		}
		res.Classes = append(res.Classes, cr)
		res.TotalKm += km
		res.TotalLitres += litres
		res.TotalCO2Tonnes += cr.CO2Tonnes
	}
	if res.TotalKm > 0 {
		res.GramsPerKm = res.TotalCO2Tonnes * 1e6 / res.TotalKm
	}
	res.ImprovedTonnes = res.TotalCO2Tonnes * (1 - in.ImprovementPercent/100)
	res.SavedTonnes = res.TotalCO2Tonnes - res.ImprovedTonnes
	return res, nil
}
