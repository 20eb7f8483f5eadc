package montecarlo

import "math"

// IRR root-finder settings.
const (
	irrLowerBound = -0.9999
	irrUpperBound = 1e6
	irrTolerance  = 1e-10
	irrMaxIter    = 200
)

// AnnuityFactor is the present value of 1 paid at the end of each year 1..years.
func AnnuityFactor(rate float64, years int) float64 {
	f := 0.0
	for t := 1; t <= years; t++ {
		f += 1 / math.Pow(1+rate, float64(t))
	}
	return f
}

// NPV discounts a constant annual cash flow over years 1..years and
// subtracts the upfront investment. There is no terminal value.
func NPV(annual, rate float64, years int, investment float64) float64 {
	pv := 0.0
	for t := 1; t <= years; t++ {
		pv += annual / math.Pow(1+rate, float64(t))
	}
	return pv - investment
}

// ROI returns (annual*years - investment) / investment.
func ROI(annual float64, years int, investment float64) (float64, error) {
	if investment == 0 {
		return 0, ErrUndefinedRatio
	}
	return (annual*float64(years) - investment) / investment, nil
}

// BreakevenSales returns the annual volume at which NPV is zero for the
// given unit margin. ok is false when the margin is not positive.
func BreakevenSales(price, cost, investment, rate float64, years int) (float64, bool) {
	margin := price - cost
	if margin <= 0 {
		return 0, false
	}
	return investment / (margin * AnnuityFactor(rate, years)), true
}

// CashFlowStream builds [-investment, annual, ..., annual] with years+1 entries.
func CashFlowStream(investment, annual float64, years int) []float64 {
	flows := make([]float64, years+1)
	flows[0] = -investment
	for t := 1; t <= years; t++ {
		flows[t] = annual
	}
	return flows
}

// IRR solves for the rate at which the stream's NPV is zero. flows[0] is
// the time-0 amount. It brackets a root on (-0.9999, 1e6] and refines it
// with Newton steps, falling back to bisection when a step leaves the bracket.
func IRR(flows []float64) (float64, error) {
	if !hasSignChange(flows) {
		return 0, ErrNoSignChange
	}

	lo, hi := irrLowerBound, 1.0
	flo := presentValue(flows, lo)
	fhi := presentValue(flows, hi)
	for sameSign(flo, fhi) {
		if hi >= irrUpperBound {
			return 0, ErrIRRNonConvergence
		}
		hi = math.Min(hi*2, irrUpperBound)
		fhi = presentValue(flows, hi)
	}
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}

	r := 0.1
	if r <= lo || r >= hi {
		r = (lo + hi) / 2
	}
	for i := 0; i < irrMaxIter; i++ {
		f, df := presentValueAndSlope(flows, r)
		if math.IsNaN(f) {
			return 0, ErrIRRNonConvergence
		}
		if f == 0 {
			return r, nil
		}
		if sameSign(f, flo) {
			lo, flo = r, f
		} else {
			hi = r
		}
		next := r - f/df
		if df == 0 || math.IsNaN(next) || math.IsInf(next, 0) || next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		if math.Abs(next-r) < irrTolerance*math.Max(1, math.Abs(r)) {
			return next, nil
		}
		r = next
	}
	return 0, ErrIRRNonConvergence
}

func presentValue(flows []float64, rate float64) float64 {
	v := 0.0
	for t, f := range flows {
		v += f / math.Pow(1+rate, float64(t))
	}
	return v
}

func presentValueAndSlope(flows []float64, rate float64) (float64, float64) {
	v, dv := 0.0, 0.0
	for t, f := range flows {
		d := math.Pow(1+rate, float64(t))
		v += f / d
		dv -= float64(t) * f / (d * (1 + rate))
	}
	return v, dv
}

// hasSignChange reports whether the stream holds both a strictly positive
// and a strictly negative amount. Zeros carry no sign.
func hasSignChange(flows []float64) bool {
	pos, neg := false, false
	for _, f := range flows {
		switch {
		case f > 0:
			pos = true
		case f < 0:
			neg = true
		}
	}
	return pos && neg
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
