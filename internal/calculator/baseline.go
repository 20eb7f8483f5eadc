package calculator

import (
	"errors"
	"fmt"
	"math"

	"CarbonCompendium/internal/model"
)

var (
	ErrNegativeInput   = errors.New("input must be a non-negative number")
	ErrUnknownIndustry = errors.New("unknown industry")
	ErrUnknownFuel     = errors.New("unknown fuel")
	ErrUnknownMaterial = errors.New("unknown material")
	ErrInvalidFraction = errors.New("fraction must be between 0 and 1")
	ErrInvalidPercent  = errors.New("percentage must be between 0 and 100")
)

// industries holds sample emission intensities in tCO2e per tonne of product.
var industries = []model.Industry{
	{Name: "Cement", Intensity: 0.9},
	{Name: "Steel", Intensity: 1.9},
	{Name: "Aluminium", Intensity: 12.0},
	{Name: "Electricity (Coal Grid)", Intensity: 0.95},
	{Name: "Fertilizer (Urea)", Intensity: 1.5},
	{Name: "Glass", Intensity: 0.8},
	{Name: "Pulp & Paper", Intensity: 1.1},
}

// Industries returns the baseline table in display order.
func Industries() []model.Industry {
	out := make([]model.Industry, len(industries))
	copy(out, industries)
	return out
}

// BaselineIntensity looks up an industry's emission intensity.
func BaselineIntensity(industry string) (float64, error) {
	for _, ind := range industries {
		if ind.Name == industry {
			return ind.Intensity, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownIndustry, industry)
}

// BaselineEmissions is intensity times output, in tCO2e.
func BaselineEmissions(intensity, output float64) (float64, error) {
	if err := nonNegative(intensity, output); err != nil {
		return 0, err
	}
	return intensity * output, nil
}

// EstimateCredits nets actual emissions and leakage off the baseline.
func EstimateCredits(baseline, actual, leakage float64) (float64, model.CreditStatus, error) {
	if err := nonNegative(baseline, actual, leakage); err != nil {
		return 0, "", err
	}
	credits := baseline - actual - leakage
	return credits, Status(credits), nil
}

// Status classifies a credit balance.
func Status(credits float64) model.CreditStatus {
	switch {
	case credits > 0:
		return model.CreditGenerating
	case credits == 0:
		return model.CreditNeutral
	default:
		return model.CreditNotQualifying
	}
}

// Preview computes the credit outcome for an industry from the baseline table.
func Preview(industry string, output, actual, leakage float64) (*model.CreditPreview, error) {
	intensity, err := BaselineIntensity(industry)
	if err != nil {
		return nil, err
	}
	p, err := PreviewWithIntensity(intensity, output, actual, leakage)
	if err != nil {
		return nil, err
	}
	p.Industry = industry
	return p, nil
}

// PreviewWithIntensity computes the credit outcome for an explicit intensity.
func PreviewWithIntensity(intensity, output, actual, leakage float64) (*model.CreditPreview, error) {
	baseline, err := BaselineEmissions(intensity, output)
	if err != nil {
		return nil, err
	}
	credits, status, err := EstimateCredits(baseline, actual, leakage)
	if err != nil {
		return nil, err
	}
	return &model.CreditPreview{
		BaselineIntensity: intensity,
		BaselineEmissions: baseline,
		ActualEmissions:   actual,
		Leakage:           leakage,
		EstimatedCredits:  credits,
		Status:            status,
	}, nil
}

func nonNegative(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrNegativeInput
		}
	}
	return nil
}
