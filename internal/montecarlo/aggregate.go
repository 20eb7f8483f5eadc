package montecarlo

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"CarbonCompendium/internal/model"
)

// Aggregate reduces trial outputs to summary statistics. Means over the
// optional metrics cover only trials where the metric is defined; the
// omitted counts make that sample-size skew visible.
func Aggregate(trials []model.Trial) model.SimulationSummary {
	n := len(trials)
	sum := model.SimulationSummary{Trials: n}
	if n == 0 {
		return sum
	}

	npv := make([]float64, n)
	var roi, irr, breakeven []float64
	positive := 0
	for i, t := range trials {
		npv[i] = t.NPV
		if t.NPV > 0 {
			positive++
		}
		if t.ROI != nil {
			roi = append(roi, *t.ROI)
		}
		if t.IRR != nil {
			irr = append(irr, *t.IRR)
		}
		if t.BreakevenSales != nil {
			breakeven = append(breakeven, *t.BreakevenSales)
		}
	}

	sorted := make([]float64, n)
	copy(sorted, npv)
	sort.Float64s(sorted)

	sum.MeanNPV = stat.Mean(npv, nil)
	if n > 1 {
		sum.StdDevNPV = stat.StdDev(npv, nil)
	}
	sum.MinNPV = sorted[0]
	sum.MaxNPV = sorted[n-1]
	sum.P10NPV = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	sum.P50NPV = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	sum.P90NPV = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	sum.ProbNPVPositive = float64(positive) / float64(n)

	sum.MeanROI, sum.ROICount = subsetMean(roi)
	sum.ROIOmitted = n - sum.ROICount
	sum.MeanIRR, sum.IRRCount = subsetMean(irr)
	sum.IRROmitted = n - sum.IRRCount
	sum.MeanBreakeven, sum.BreakevenCount = subsetMean(breakeven)
	sum.BreakevenOmit = n - sum.BreakevenCount
	return sum
}

func subsetMean(values []float64) (*float64, int) {
	if len(values) == 0 {
		return nil, 0
	}
	m := stat.Mean(values, nil)
	return &m, len(values)
}
