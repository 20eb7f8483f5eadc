package montecarlo

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"CarbonCompendium/internal/model"
)

// DefaultHistogramBins matches the NPV distribution chart.
const DefaultHistogramBins = 40

// Histogram buckets values into equal-width bins spanning their range.
// All values equal collapse to a single bin.
func Histogram(values []float64, bins int) []model.HistogramBin {
	if len(values) == 0 || bins < 1 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		bins = 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// upper edge is exclusive in stat.Histogram
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i] = model.HistogramBin{
			Lower: dividers[i],
			Upper: dividers[i+1],
			Count: int(counts[i]),
		}
	}
	return out
}
