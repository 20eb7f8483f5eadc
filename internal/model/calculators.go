package model

// CreditStatus classifies a project's net credit position.
type CreditStatus string

const (
	CreditGenerating    CreditStatus = "generating"
	CreditNeutral       CreditStatus = "neutral"
	CreditNotQualifying CreditStatus = "not_qualifying"
)

// Industry is a sector with its baseline emission intensity.
type Industry struct {
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"` // tCO2e per tonne of product
}

// CreditPreview is the outcome of the credit calculation for one project.
type CreditPreview struct {
	Industry          string       `json:"industry,omitempty"`
	BaselineIntensity float64      `json:"baseline_intensity"`
	BaselineEmissions float64      `json:"baseline_emissions"`
	ActualEmissions   float64      `json:"actual_emissions"`
	Leakage           float64      `json:"leakage"`
	EstimatedCredits  float64      `json:"estimated_credits"`
	Status            CreditStatus `json:"status"`
}

// EVChargingInput describes a distance driven electrically versus by an ICE car.
type EVChargingInput struct {
	DistanceKm         float64 `json:"distance_km"`
	EVKWhPer100Km      float64 `json:"ev_kwh_per_100km"`
	ChargerLossPercent float64 `json:"charger_loss_percent"`
	GridKgPerKWh       float64 `json:"grid_kg_per_kwh"`
	ICELitresPer100Km  float64 `json:"ice_litres_per_100km"`
	ICEFuel            string  `json:"ice_fuel"`
}

// EVChargingResult holds the EV versus ICE comparison.
type EVChargingResult struct {
	ChargingKWh    float64 `json:"charging_kwh"`
	EVEmissionsKg  float64 `json:"ev_emissions_kg"`
	ICELitres      float64 `json:"ice_litres"`
	ICEEmissionsKg float64 `json:"ice_emissions_kg"`
	AvoidedKg      float64 `json:"avoided_kg"`
}

// VehicleClass is one homogeneous group of fleet vehicles.
type VehicleClass struct {
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	AnnualKm       float64 `json:"annual_km"`
	LitresPer100Km float64 `json:"litres_per_100km"`
	Fuel           string  `json:"fuel"`
}

// FleetInput is a fleet and a targeted efficiency improvement.
type FleetInput struct {
	Classes            []VehicleClass `json:"classes"`
	ImprovementPercent float64        `json:"improvement_percent"`
}

// VehicleClassResult is the annual footprint of one vehicle class.
type VehicleClassResult struct {
	Name       string  `json:"name"`
	Km         float64 `json:"km"`
	Litres     float64 `json:"litres"`
	CO2Tonnes  float64 `json:"co2_tonnes"`
	GramsPerKm float64 `json:"grams_per_km"`
}

// FleetResult is the annual footprint of a fleet.
type FleetResult struct {
	Classes        []VehicleClassResult `json:"classes"`
	TotalKm        float64              `json:"total_km"`
	TotalLitres    float64              `json:"total_litres"`
	TotalCO2Tonnes float64              `json:"total_co2_tonnes"`
	GramsPerKm     float64              `json:"grams_per_km"`
	ImprovedTonnes float64              `json:"improved_co2_tonnes"`
	SavedTonnes    float64              `json:"saved_co2_tonnes"`
}

// WasteStream is a recycled material flow.
type WasteStream struct {
	Material         string  `json:"material"`
	Tonnes           float64 `json:"tonnes"`
	RecycledFraction float64 `json:"recycled_fraction"`
}

// WasteStreamResult is the avoided emissions of one stream.
type WasteStreamResult struct {
	Material       string  `json:"material"`
	RecycledTonnes float64 `json:"recycled_tonnes"`
	AvoidedTonnes  float64 `json:"avoided_co2e_tonnes"`
}

// WasteResult sums the avoided emissions of all streams.
type WasteResult struct {
	Streams       []WasteStreamResult `json:"streams"`
	AvoidedTonnes float64             `json:"avoided_co2e_tonnes"`
}

// FuelUse is a quantity of fuel burnt on site. Natural gas is in m³, the rest in litres.
type FuelUse struct {
	Fuel     string  `json:"fuel"`
	Quantity float64 `json:"quantity"`
}

// ScopesInput is an organisation's activity data for a GHG inventory.
type ScopesInput struct {
	Fuels          []FuelUse          `json:"fuels"`
	ElectricityKWh float64            `json:"electricity_kwh"`
	GridKgPerKWh   float64            `json:"grid_kg_per_kwh"`
	Scope3         map[string]float64 `json:"scope3"` // tCO2e per category
}

// ScopesResult is a GHG inventory in tCO2e.
type ScopesResult struct {
	Scope1      float64            `json:"scope1"`
	Scope2      float64            `json:"scope2"`
	Scope3      float64            `json:"scope3"`
	Total       float64            `json:"total"`
	Shares      map[string]float64 `json:"shares"`
	Scope3ByCat map[string]float64 `json:"scope3_by_category,omitempty"`
}
