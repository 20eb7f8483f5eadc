package collector

import "CarbonCompendium/internal/model"

// Fetcher defines the interface for fetching electricity tariff history.
type Fetcher interface {
	FetchHistory(sector string) ([]model.TariffPoint, error)
	Name() string
}

// Sectors covered by the scenario explorer.
var Sectors = []string{"Residential", "Business", "Industrial"}
