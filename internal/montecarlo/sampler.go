package montecarlo

import (
	"math/rand"

	"CarbonCompendium/internal/model"
)

// Samples holds the independently drawn inputs of a run, index-aligned.
type Samples struct {
	Sales  []float64
	Prices []float64
	Costs  []float64
}

// Sample draws n sales values, then n prices, then n costs, each uniform
// over its configured range.
func Sample(rng *rand.Rand, cfg model.SimulationConfig, n int) Samples {
	return Samples{
		Sales:  draw(rng, cfg.Sales, n),
		Prices: draw(rng, cfg.Price, n),
		Costs:  draw(rng, cfg.Cost, n),
	}
}

func draw(rng *rand.Rand, r model.Range, n int) []float64 {
	out := make([]float64, n)
	width := r.Max - r.Min
	for i := range out {
		out[i] = r.Min + rng.Float64()*width
	}
	return out
}
