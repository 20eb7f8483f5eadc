// Package scenarios projects electricity tariffs and grid intensity under
// policy scenarios.
package scenarios

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientHistory is returned when a series is too short to fit.
var ErrInsufficientHistory = errors.New("at least 4 observations are needed to fit the model")

// maxPhi keeps the fitted difference process stationary.
const maxPhi = 0.95

// ARIMA110 is an ARIMA(1,1,0) model with drift on a price series:
// d_t = Intercept + Phi*d_{t-1}, where d_t is the first difference.
type ARIMA110 struct {
	Intercept float64
	Phi       float64
	LastValue float64
	LastDiff  float64
}

// FitARIMA110 fits the model by least squares of each first difference on
// its predecessor.
func FitARIMA110(series []float64) (*ARIMA110, error) {
	if len(series) < 4 {
		return nil, ErrInsufficientHistory
	}
	diffs := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		diffs[i-1] = series[i] - series[i-1]
	}
	x := diffs[:len(diffs)-1]
	y := diffs[1:]

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		// constant differences: pure drift
		alpha, beta = stat.Mean(y, nil), 0
	}
	if beta > maxPhi {
		beta = maxPhi
	} else if beta < -maxPhi {
		beta = -maxPhi
	}
	// refit the intercept so the clamped model still passes through the means
	if beta != 0 {
		alpha = stat.Mean(y, nil) - beta*stat.Mean(x, nil)
	}

	return &ARIMA110{
		Intercept: alpha,
		Phi:       beta,
		LastValue: series[len(series)-1],
		LastDiff:  diffs[len(diffs)-1],
	}, nil
}

// NextDiff returns the expected difference following prev.
func (m *ARIMA110) NextDiff(prev float64) float64 {
	return m.Intercept + m.Phi*prev
}

// Forecast returns the expected level for each of the next steps.
func (m *ARIMA110) Forecast(steps int) []float64 {
	out := make([]float64, steps)
	level, d := m.LastValue, m.LastDiff
	for i := range out {
		d = m.NextDiff(d)
		level += d
		out[i] = level
	}
	return out
}
