package scenarios

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarbonCompendium/internal/collector"
	"CarbonCompendium/internal/model"
)

// diffs follow d_t = 1 + 0.5*d_{t-1} exactly, starting from 4
var arSeries = []float64{100, 104, 107, 109.5, 111.75, 113.875}

func TestFitARIMA110_RecoversCoefficients(t *testing.T) {
	m, err := FitARIMA110(arSeries)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.Intercept, 1e-9)
	assert.InDelta(t, 0.5, m.Phi, 1e-9)
	assert.Equal(t, 113.875, m.LastValue)
	assert.InDelta(t, 2.125, m.LastDiff, 1e-12)

	f := m.Forecast(2)
	assert.InDelta(t, 113.875+2.0625, f[0], 1e-9)
	assert.InDelta(t, 113.875+2.0625+2.03125, f[1], 1e-9)
}

func TestFitARIMA110_ConstantDrift(t *testing.T) {
	m, err := FitARIMA110([]float64{10, 12, 14, 16, 18})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Phi)
	assert.InDelta(t, 2, m.Intercept, 1e-12)
	assert.InDeltaSlice(t, []float64{20, 22, 24}, m.Forecast(3), 1e-9)
}

func TestFitARIMA110_InsufficientHistory(t *testing.T) {
	_, err := FitARIMA110([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestFitARIMA110_PhiClamped(t *testing.T) {
	// explosive differences
	m, err := FitARIMA110([]float64{1, 2, 4, 8, 16, 32})
	require.NoError(t, err)
	assert.LessOrEqual(t, m.Phi, maxPhi)
}

func history() []model.TariffPoint {
	pts := make([]model.TariffPoint, len(arSeries))
	for i, p := range arSeries {
		pts[i] = model.TariffPoint{Year: 2019 + i, Sector: "Business", Price: p, CO2KgPerKWh: 1.0}
	}
	return pts
}

func TestProject_ScenarioOrdering(t *testing.T) {
	at := map[string]model.ScenarioPoint{}
	for _, p := range Profiles() {
		proj, err := Project(history(), p, 2030)
		require.NoError(t, err)
		require.Len(t, proj, 6)
		assert.Equal(t, 2025, proj[0].Year)
		assert.Equal(t, p.Name, proj[0].Scenario)
		at[p.Name] = proj[len(proj)-1]
	}

	assert.Greater(t, at[BAU].Price, at[IRP].Price)
	assert.Greater(t, at[IRP].Price, at[Accelerated].Price)
	assert.Greater(t, at[Accelerated].Price, 113.875)

	assert.InDelta(t, math.Pow(0.995, 6), at[BAU].CO2KgPerKWh, 1e-12)
	assert.InDelta(t, math.Pow(0.93, 6), at[Accelerated].CO2KgPerKWh, 1e-12)
}

func TestProject_HorizonPassed(t *testing.T) {
	p, _ := ProfileByName(BAU)
	_, err := Project(history(), p, 2024)
	assert.Error(t, err)
}

func TestExplorer_Dataset(t *testing.T) {
	e := NewExplorer(collector.NewCollector(&collector.MockFetcher{}, nil), 0)
	ds, err := e.Dataset()
	require.NoError(t, err)

	assert.Equal(t, DefaultHorizonYear, ds.HorizonYear)
	assert.Len(t, ds.Rows, 3*(15+3*11))
	require.Len(t, ds.Summary, 9)
	for _, s := range ds.Summary {
		assert.Equal(t, 2035, s.Year)
	}

	biz := ds.Filter("Business")
	assert.Len(t, biz.Rows, 15+3*11)
	assert.Len(t, biz.Summary, 3)

	again, err := e.Dataset()
	require.NoError(t, err)
	assert.Same(t, ds, again)

	fresh, err := e.Refresh()
	require.NoError(t, err)
	assert.NotSame(t, ds, fresh)
}
