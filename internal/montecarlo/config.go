package montecarlo

import (
	"math"

	"CarbonCompendium/internal/model"
)

// Custom discount rates are limited to this band, in percent.
const (
	MinCustomRatePercent = 5.0
	MaxCustomRatePercent = 40.0
)

// PresetInfo describes a selectable discount rate.
type PresetInfo struct {
	Preset model.DiscountPreset `json:"preset"`
	Rate   float64              `json:"rate,omitempty"`
	Label  string               `json:"label"`
}

// Presets lists the discount rate options in display order.
func Presets() []PresetInfo {
	return []PresetInfo{
		{Preset: model.PresetEstablished, Rate: 0.10, Label: "10% (established business)"},
		{Preset: model.PresetMediumRisk, Rate: 0.15, Label: "15% (medium risk)"},
		{Preset: model.PresetHighRisk, Rate: 0.20, Label: "20% (high risk)"},
		{Preset: model.PresetCustom, Label: "Custom"},
	}
}

// ResolveDiscountRate maps a preset to a rate. customPercent is only read
// for the Custom preset.
func ResolveDiscountRate(preset model.DiscountPreset, customPercent float64) (float64, error) {
	switch preset {
	case model.PresetEstablished:
		return 0.10, nil
	case model.PresetMediumRisk:
		return 0.15, nil
	case model.PresetHighRisk:
		return 0.20, nil
	case model.PresetCustom:
		if math.IsNaN(customPercent) || customPercent < MinCustomRatePercent || customPercent > MaxCustomRatePercent {
			return 0, &ConfigError{Field: "discount_rate", Reason: "custom rate must be between 5% and 40%"}
		}
		return customPercent / 100, nil
	default:
		return 0, &ConfigError{Field: "discount_rate", Reason: "unknown preset " + string(preset)}
	}
}

// Validate checks a configuration before any sampling happens.
func Validate(cfg model.SimulationConfig) error {
	if cfg.Years < 1 {
		return &ConfigError{Field: "years", Reason: "must be at least 1"}
	}
	if cfg.Trials < 1 {
		return &ConfigError{Field: "trials", Reason: "must be at least 1"}
	}
	ranges := []struct {
		name string
		r    model.Range
	}{
		{"sales", cfg.Sales},
		{"price", cfg.Price},
		{"cost", cfg.Cost},
	}
	for _, rr := range ranges {
		if err := validateRange(rr.name, rr.r); err != nil {
			return err
		}
	}
	if !finite(cfg.InitialInvestment) || cfg.InitialInvestment < 0 {
		return &ConfigError{Field: "initial_investment", Reason: "must be a non-negative number"}
	}
	if !finite(cfg.DiscountRate) || cfg.DiscountRate <= 0 || cfg.DiscountRate >= 1 {
		return &ConfigError{Field: "discount_rate", Reason: "must be in (0, 1)"}
	}
	return nil
}

func validateRange(name string, r model.Range) error {
	if !finite(r.Min) || !finite(r.Max) {
		return &ConfigError{Field: name, Reason: "range bounds must be finite"}
	}
	if r.Min < 0 {
		return &ConfigError{Field: name, Reason: "range must be non-negative"}
	}
	if r.Min > r.Max {
		return &ConfigError{Field: name, Reason: "range min must not exceed max"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
