package calculator

import (
	"fmt"
	"strings"

	"CarbonCompendium/internal/model"
)

// Indicative avoided emissions per tonne recycled instead of landfilled, tCO2e/t.
var recyclingFactors = map[string]float64{
	"paper":     0.9,
	"plastics":  1.0,
	"glass":     0.3,
	"aluminium": 9.0,
	"steel":     1.5,
	"organics":  0.2,
}

// Materials lists the recyclable materials with known factors.
func Materials() []string {
	return []string{"paper", "plastics", "glass", "aluminium", "steel", "organics"}
}

// WasteRecycling sums avoided emissions across recycled material streams.
func WasteRecycling(streams []model.WasteStream) (*model.WasteResult, error) {
	res := &model.WasteResult{Streams: make([]model.WasteStreamResult, 0, len(streams))}
	for _, s := range streams {
		factor, ok := recyclingFactors[strings.ToLower(strings.TrimSpace(s.Material))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, s.Material)
		}
		if err := nonNegative(s.Tonnes); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Material, err)
		}
		if s.RecycledFraction < 0 || s.RecycledFraction > 1 {
			return nil, fmt.Errorf("%s: %w", s.Material, ErrInvalidFraction)
		}
		recycled := s.Tonnes * s.RecycledFraction
		sr := model.WasteStreamResult{
			Material:       s.Material,
			RecycledTonnes: recycled,
			AvoidedTonnes:  recycled * factor,
		}
		res.Streams = append(res.Streams, sr)
		res.AvoidedTonnes += sr.AvoidedTonnes
	}
	return res, nil
}
