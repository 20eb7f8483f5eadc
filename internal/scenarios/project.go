package scenarios

import (
	"fmt"
	"math"

	"CarbonCompendium/internal/model"
)

// Scenario names.
const (
	Historical  = "Historical"
	BAU         = "BAU"
	IRP         = "IRP"
	Accelerated = "Accelerated"
)

// Profile shapes a projection: price increments are scaled by Growth and
// grid intensity declines by CO2Decline per year.
type Profile struct {
	Name        string  `json:"name"`
	Growth      float64 `json:"growth"`
	CO2Decline  float64 `json:"co2_decline"`
	Description string  `json:"description"`
}

// Profiles returns the scenarios in display order.
func Profiles() []Profile {
	return []Profile{
		{Name: BAU, Growth: 1.0, CO2Decline: 0.005,
			Description: "Fossil-heavy future; price growth follows the historical trend and carbon intensity stays high."},
		{Name: IRP, Growth: 0.6, CO2Decline: 0.03,
			Description: "Planned renewables build-out; price growth slows and carbon intensity falls steadily."},
		{Name: Accelerated, Growth: 0.3, CO2Decline: 0.07,
			Description: "Aggressive renewables rollout; price growth flattens and carbon intensity drops sharply."},
	}
}

// ProfileByName looks up a scenario profile.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Project forecasts history through horizonYear under profile. History must
// be sorted by year.
func Project(history []model.TariffPoint, profile Profile, horizonYear int) ([]model.ScenarioPoint, error) {
	prices := make([]float64, len(history))
	for i, p := range history {
		prices[i] = p.Price
	}
	m, err := FitARIMA110(prices)
	if err != nil {
		return nil, err
	}

	last := history[len(history)-1]
	if horizonYear <= last.Year {
		return nil, fmt.Errorf("horizon %d is not after the last observation %d", horizonYear, last.Year)
	}

	out := make([]model.ScenarioPoint, 0, horizonYear-last.Year)
	price, co2, d := last.Price, last.CO2KgPerKWh, m.LastDiff
	for year := last.Year + 1; year <= horizonYear; year++ {
		d = m.NextDiff(d)
		price = math.Max(0, price+profile.Growth*d)
		co2 *= 1 - profile.CO2Decline
		out = append(out, model.ScenarioPoint{
			Year:        year,
			Sector:      last.Sector,
			Scenario:    profile.Name,
			Price:       price,
			CO2KgPerKWh: co2,
		})
	}
	return out, nil
}
