package montecarlo

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Sensitivity keys.
const (
	InputSales = "sales"
	InputPrice = "price"
	InputCost  = "cost"
)

// Sensitivity returns the Pearson correlation of each sampled input with NPV.
// A constant input or output has no defined correlation and reports 0.
func Sensitivity(s Samples, npv []float64) map[string]float64 {
	return map[string]float64{
		InputSales: correlate(s.Sales, npv),
		InputPrice: correlate(s.Prices, npv),
		InputCost:  correlate(s.Costs, npv),
	}
}

func correlate(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, c))
}
