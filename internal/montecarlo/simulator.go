package montecarlo

import (
	"math/rand"

	"CarbonCompendium/internal/model"
)

// Simulator runs Monte Carlo financial simulations from an injected
// random source. A Simulator is not safe for concurrent use.
type Simulator struct {
	rng  *rand.Rand
	seed int64
	bins int
}

// New creates a Simulator drawing from src.
func New(src rand.Source) *Simulator {
	return &Simulator{rng: rand.New(src), bins: DefaultHistogramBins}
}

// NewSeeded creates a Simulator whose runs are reproducible for seed.
func NewSeeded(seed int64) *Simulator {
	s := New(rand.NewSource(seed))
	s.seed = seed
	return s
}

// WithHistogramBins sets the NPV histogram resolution.
func (s *Simulator) WithHistogramBins(bins int) *Simulator {
	if bins > 0 {
		s.bins = bins
	}
	return s
}

// Run validates cfg, samples cfg.Trials scenarios and evaluates them.
func (s *Simulator) Run(cfg model.SimulationConfig) (*model.SimulationResult, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	samples := Sample(s.rng, cfg, cfg.Trials)
	trials := Evaluate(samples, cfg)

	res := &model.SimulationResult{
		Config: cfg,
		Seed:   s.seed,
		Sales:  samples.Sales,
		Prices: samples.Prices,
		Costs:  samples.Costs,
		NPV:    make([]float64, len(trials)),
	}
	for i, t := range trials {
		res.NPV[i] = t.NPV
		if t.ROI != nil {
			res.ROI = append(res.ROI, *t.ROI)
		}
		if t.IRR != nil {
			res.IRR = append(res.IRR, *t.IRR)
		}
		if t.BreakevenSales != nil {
			res.Breakeven = append(res.Breakeven, *t.BreakevenSales)
		}
	}

	res.Summary = Aggregate(trials)
	res.Sensitivity = Sensitivity(samples, res.NPV)
	res.Histogram = Histogram(res.NPV, s.bins)
	return res, nil
}
