package model

import "time"

// Project is a carbon project in the registry.
type Project struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Industry          string  `json:"industry"`
	BaselineIntensity float64 `json:"baseline_intensity"` // tCO2e per tonne of output
	OutputTonnes      float64 `json:"output_tonnes"`
	ActualEmissions   float64 `json:"actual_emissions"` // tCO2e
	Leakage           float64 `json:"leakage"`          // tCO2e
	EstimatedCredits  float64 `json:"estimated_credits"`
}

// GlossaryTerm is one glossary entry.
type GlossaryTerm struct {
	ID             int64  `json:"id" yaml:"-"`
	Term           string `json:"term" yaml:"term"`
	Category       string `json:"category" yaml:"category"`
	Definition     string `json:"definition" yaml:"definition"`
	Example        string `json:"example" yaml:"example"`
	GreenwashWatch string `json:"greenwash_watch" yaml:"greenwash_watch"`
}

// CountryProfile is a commodity atlas row.
type CountryProfile struct {
	ISOA3       string `json:"iso_a3"`
	Country     string `json:"country"`
	Commodities string `json:"commodities"` // semicolon-separated
	ExportValue string `json:"export_value"`
	CO2         string `json:"co2"` // tonnes per capita
	Link        string `json:"link"`
	Notes       string `json:"notes"`
}

// TariffPoint is one historical electricity observation for a sector.
type TariffPoint struct {
	Year        int     `json:"year"`
	Sector      string  `json:"sector"`
	Price       float64 `json:"price"`          // c/kWh
	CO2KgPerKWh float64 `json:"co2_kg_per_kwh"` // grid intensity
}

// ScenarioPoint is one row of the electricity scenario dataset.
type ScenarioPoint struct {
	Year        int     `json:"year"`
	Sector      string  `json:"sector"`
	Scenario    string  `json:"scenario"`
	Price       float64 `json:"price"`
	CO2KgPerKWh float64 `json:"co2_kg_per_kwh"`
}

// RunRecord is a persisted simulation run.
type RunRecord struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	Name        string             `json:"name,omitempty"`
	Seed        int64              `json:"seed"`
	Config      SimulationConfig   `json:"config"`
	Summary     SimulationSummary  `json:"summary"`
	Sensitivity map[string]float64 `json:"sensitivity"`
	CreatedAt   time.Time          `json:"created_at"`
}
