package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarbonCompendium/internal/atlas"
	"CarbonCompendium/internal/cache"
	"CarbonCompendium/internal/collector"
	"CarbonCompendium/internal/glossary"
	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/observability"
	"CarbonCompendium/internal/recorder"
	"CarbonCompendium/internal/registry"
	"CarbonCompendium/internal/scenarios"
	"CarbonCompendium/internal/service"
)

type fixture struct {
	server *httptest.Server
	runs   recorder.Recorder
}

func newFixture(t *testing.T, adminPass string) *fixture {
	t.Helper()
	dir := t.TempDir()

	runs, err := recorder.NewSQLiteRecorder(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	gl, err := glossary.Open(filepath.Join(dir, "glossary.db"))
	require.NoError(t, err)
	at, err := atlas.Open(filepath.Join(dir, "atlas.db"), adminPass)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	svc := service.New(service.Options{MinTrials: 100, MaxTrials: 5000, DefaultTrials: 500},
		cache.NewMemoryCache(0), runs, metrics)

	router := NewRouter(Deps{
		Service:   svc,
		Projects:  registry.NewMemoryStore(),
		Glossary:  gl,
		Atlas:     at,
		Scenarios: scenarios.NewExplorer(collector.NewCollector(&collector.MockFetcher{}, nil), 0),
		Metrics:   metrics,
		Gatherer:  reg,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		runs.Close()
		gl.Close()
		at.Close()
	})
	return &fixture{server: srv, runs: runs}
}

func (f *fixture) do(t *testing.T, method, path string, body any, header ...string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, f.server.URL+path, rd)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func simulationBody(trials int) map[string]any {
	return map[string]any{
		"config": map[string]any{
			"years":              5,
			"sales":              map[string]float64{"min": 1000, "max": 2000},
			"price":              map[string]float64{"min": 80, "max": 120},
			"cost":               map[string]float64{"min": 50, "max": 90},
			"initial_investment": 500000,
			"trials":             trials,
		},
		"preset": "10%",
		"seed":   42,
		"name":   "kiln upgrade",
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "")
	resp, body := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRunSimulation(t *testing.T) {
	f := newFixture(t, "")

	resp, body := f.do(t, http.MethodPost, "/api/v1/simulations", simulationBody(1000))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var res model.SimulationResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, int64(42), res.Seed)
	assert.InDelta(t, 0.10, res.Config.DiscountRate, 1e-12)
	assert.Equal(t, 1000, res.Summary.Trials)
	assert.Nil(t, res.NPV)
	assert.NotEmpty(t, res.Histogram)

	resp, body = f.do(t, http.MethodPost, "/api/v1/simulations?arrays=true", simulationBody(1000))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var full model.SimulationResult
	require.NoError(t, json.Unmarshal(body, &full))
	assert.Len(t, full.NPV, 1000)
	assert.Equal(t, res.Summary, full.Summary)

	runs, err := f.runs.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, recorder.SourceAPI, runs[0].Source)
	assert.Equal(t, "kiln upgrade", runs[0].Name)
}

func TestRunSimulation_Invalid(t *testing.T) {
	f := newFixture(t, "")

	bad := simulationBody(1000)
	bad["config"].(map[string]any)["years"] = 0
	resp, body := f.do(t, http.MethodPost, "/api/v1/simulations", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "years")

	resp, body = f.do(t, http.MethodPost, "/api/v1/simulations", simulationBody(50000))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "trials")

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/v1/simulations", strings.NewReader("{"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestListRuns(t *testing.T) {
	f := newFixture(t, "")
	for i := 0; i < 3; i++ {
		resp, _ := f.do(t, http.MethodPost, "/api/v1/simulations", simulationBody(200))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := f.do(t, http.MethodGet, "/api/v1/simulations/runs?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var runs []model.RunRecord
	require.NoError(t, json.Unmarshal(body, &runs))
	assert.Len(t, runs, 2)

	resp, _ = f.do(t, http.MethodGet, "/api/v1/simulations/runs?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPresets(t *testing.T) {
	f := newFixture(t, "")
	resp, body := f.do(t, http.MethodGet, "/api/v1/discount-presets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"preset":"Custom"`)
	assert.Contains(t, string(body), `"custom_max_rate":40`)
}

func TestProjectsCRUD(t *testing.T) {
	f := newFixture(t, "")

	resp, body := f.do(t, http.MethodPost, "/api/v1/projects", model.Project{
		Name: "Kiln", Industry: "Cement", BaselineIntensity: 0.9, OutputTonnes: 1000, ActualEmissions: 700, Leakage: 50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created model.Project
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(1), created.ID)
	assert.InDelta(t, 150, created.EstimatedCredits, 1e-9)

	resp, body = f.do(t, http.MethodPut, "/api/v1/projects/1", model.Project{
		Name: "Kiln", Industry: "Cement", BaselineIntensity: 0.9, OutputTonnes: 1000, ActualEmissions: 600,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.Project
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.InDelta(t, 300, updated.EstimatedCredits, 1e-9)

	resp, body = f.do(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []model.Project
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, _ = f.do(t, http.MethodDelete, "/api/v1/projects/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = f.do(t, http.MethodGet, "/api/v1/projects/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/v1/projects", model.Project{Name: " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPost, "/api/v1/projects", model.Project{Name: "Neg", OutputTonnes: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewAndIndustries(t *testing.T) {
	f := newFixture(t, "")

	resp, body := f.do(t, http.MethodPost, "/api/v1/projects/preview", model.Project{
		Industry: "Steel", BaselineIntensity: 1.9, OutputTonnes: 100, ActualEmissions: 200,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview model.CreditPreview
	require.NoError(t, json.Unmarshal(body, &preview))
	assert.Equal(t, model.CreditNotQualifying, preview.Status)
	assert.Equal(t, "Steel", preview.Industry)

	resp, body = f.do(t, http.MethodGet, "/api/v1/industries", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var industries []model.Industry
	require.NoError(t, json.Unmarshal(body, &industries))
	assert.Len(t, industries, 7)
}

func TestGlossary(t *testing.T) {
	f := newFixture(t, "")

	for _, term := range []model.GlossaryTerm{
		{Term: "Leakage", Category: "Methodology", Definition: "Emissions shifted outside the project boundary."},
		{Term: "Additionality", Category: "Methodology", Definition: "Reductions that would not happen otherwise."},
		{Term: "Vintage", Category: "Markets", Definition: "Year the reduction occurred."},
	} {
		resp, body := f.do(t, http.MethodPost, "/api/v1/glossary", term)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}
	resp, _ := f.do(t, http.MethodPost, "/api/v1/glossary", model.GlossaryTerm{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/v1/glossary?q=boundary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hits []model.GlossaryTerm
	require.NoError(t, json.Unmarshal(body, &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Leakage", hits[0].Term)

	resp, body = f.do(t, http.MethodGet, "/api/v1/glossary?category=Markets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Vintage", hits[0].Term)

	resp, body = f.do(t, http.MethodGet, "/api/v1/glossary?q=biochar", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/v1/glossary?group=letter", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var groups []glossary.LetterGroup
	require.NoError(t, json.Unmarshal(body, &groups))
	assert.Len(t, groups, 3)

	resp, body = f.do(t, http.MethodGet, "/api/v1/glossary/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["Markets","Methodology"]`, string(body))
}

func TestAtlas(t *testing.T) {
	f := newFixture(t, "s3cret")

	resp, body := f.do(t, http.MethodGet, "/api/v1/atlas", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		EditingEnabled bool          `json:"editing_enabled"`
		Countries      []countryView `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.True(t, list.EditingEnabled)
	assert.Len(t, list.Countries, 3)

	resp, body = f.do(t, http.MethodGet, "/api/v1/atlas/zaf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var zaf countryView
	require.NoError(t, json.Unmarshal(body, &zaf))
	assert.Equal(t, []string{"Gold", "Platinum", "Coal"}, zaf.CommodityList)

	resp, _ = f.do(t, http.MethodGet, "/api/v1/atlas/KEN", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ken := model.CountryProfile{Country: "Kenya", Commodities: "Tea; Coffee"}
	resp, _ = f.do(t, http.MethodPut, "/api/v1/atlas/KEN", ken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPut, "/api/v1/atlas/KEN", ken, "X-Admin-Pass", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, body = f.do(t, http.MethodPut, "/api/v1/atlas/ken", ken, "X-Admin-Pass", "s3cret")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"iso_a3":"KEN"`)
}

func TestAtlas_EditingDisabled(t *testing.T) {
	f := newFixture(t, "")
	resp, _ := f.do(t, http.MethodPut, "/api/v1/atlas/KEN", model.CountryProfile{Country: "Kenya"}, "X-Admin-Pass", "anything")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestElectricity(t *testing.T) {
	f := newFixture(t, "")

	resp, body := f.do(t, http.MethodGet, "/api/v1/electricity?sector=Residential", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var ds scenarios.Dataset
	require.NoError(t, json.Unmarshal(body, &ds))
	assert.Equal(t, scenarios.DefaultHorizonYear, ds.HorizonYear)
	require.NotEmpty(t, ds.Rows)
	for _, r := range ds.Rows {
		assert.Equal(t, "Residential", r.Sector)
	}
	assert.Len(t, ds.Summary, len(scenarios.Profiles()))

	resp, _ = f.do(t, http.MethodGet, "/api/v1/electricity?sector=Mining", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/v1/electricity?refresh=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCalculators(t *testing.T) {
	f := newFixture(t, "")

	resp, body := f.do(t, http.MethodPost, "/api/v1/calculators/baseline", map[string]any{
		"industry": "Cement", "output_tonnes": 1000, "actual_emissions": 900,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview model.CreditPreview
	require.NoError(t, json.Unmarshal(body, &preview))
	assert.Equal(t, model.CreditNeutral, preview.Status)
	assert.Equal(t, "Cement", preview.Industry)

	resp, _ = f.do(t, http.MethodPost, "/api/v1/calculators/baseline", map[string]any{"industry": "Unobtainium"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/api/v1/calculators/scopes", model.ScopesInput{
		Fuels:          []model.FuelUse{{Fuel: "diesel", Quantity: 1000}},
		ElectricityKWh: 10000,
		GridKgPerKWh:   0.9,
		Scope3:         map[string]float64{"travel": 1.32},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var scopes model.ScopesResult
	require.NoError(t, json.Unmarshal(body, &scopes))
	assert.InDelta(t, 2.68, scopes.Scope1, 1e-9)
	assert.InDelta(t, 9.0, scopes.Scope2, 1e-9)
	assert.InDelta(t, 13.0, scopes.Total, 1e-9)

	resp, _ = f.do(t, http.MethodPost, "/api/v1/calculators/waste", map[string]any{
		"streams": []model.WasteStream{{Material: "glass", Tonnes: 10, RecycledFraction: 1.5}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/v1/calculators/ev-charging", model.EVChargingInput{
		DistanceKm: 100, EVKWhPer100Km: 18, GridKgPerKWh: 0.9, ICELitresPer100Km: 7,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/v1/calculators/fleet", model.FleetInput{
		Classes: []model.VehicleClass{{Name: "vans", Count: 2, AnnualKm: 20000, LitresPer100Km: 9, Fuel: "diesel"}},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, "")
	f.do(t, http.MethodGet, "/health", nil)

	resp, body := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `compendium_http_requests_total{code="200",route="/health"} 1`)
}
