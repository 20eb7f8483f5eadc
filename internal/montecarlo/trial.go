package montecarlo

import "CarbonCompendium/internal/model"

// EvaluateTrial computes every metric for one sampled scenario.
func EvaluateTrial(sales, price, cost float64, cfg model.SimulationConfig) model.Trial {
	revenue := sales * price
	expense := sales * cost
	annual := revenue - expense

	t := model.Trial{
		Sales:          sales,
		Price:          price,
		Cost:           cost,
		Revenue:        revenue,
		Expense:        expense,
		AnnualCashflow: annual,
		NPV:            NPV(annual, cfg.DiscountRate, cfg.Years, cfg.InitialInvestment),
	}
	if roi, err := ROI(annual, cfg.Years, cfg.InitialInvestment); err == nil {
		t.ROI = &roi
	}
	if irr, err := IRR(CashFlowStream(cfg.InitialInvestment, annual, cfg.Years)); err == nil {
		t.IRR = &irr
	}
	if be, ok := BreakevenSales(price, cost, cfg.InitialInvestment, cfg.DiscountRate, cfg.Years); ok {
		t.BreakevenSales = &be
	}
	return t
}

// Evaluate maps EvaluateTrial over aligned samples.
func Evaluate(s Samples, cfg model.SimulationConfig) []model.Trial {
	trials := make([]model.Trial, len(s.Sales))
	for i := range trials {
		trials[i] = EvaluateTrial(s.Sales[i], s.Prices[i], s.Costs[i], cfg)
	}
	return trials
}
