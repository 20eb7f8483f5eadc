// Package api exposes the compendium over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/observability"
	"CarbonCompendium/internal/registry"
	"CarbonCompendium/internal/scenarios"
	"CarbonCompendium/internal/service"
)

// GlossaryStore is the read and add surface of the glossary.
type GlossaryStore interface {
	Search(ctx context.Context, query, category string) ([]model.GlossaryTerm, error)
	All(ctx context.Context, category string) ([]model.GlossaryTerm, error)
	Categories(ctx context.Context) ([]string, error)
	Add(ctx context.Context, t *model.GlossaryTerm) error
}

// AtlasStore is the commodity atlas surface.
type AtlasStore interface {
	List(ctx context.Context) ([]model.CountryProfile, error)
	Get(ctx context.Context, iso string) (*model.CountryProfile, error)
	Upsert(ctx context.Context, pass string, c model.CountryProfile) error
	EditingEnabled() bool
}

// ScenarioSource supplies the electricity scenario dataset.
type ScenarioSource interface {
	Dataset() (*scenarios.Dataset, error)
	Refresh() (*scenarios.Dataset, error)
}

// Deps are the components served by the router. Nil stores leave their
// routes unregistered.
type Deps struct {
	Service   *service.Service
	Projects  registry.Store
	Glossary  GlossaryStore
	Atlas     AtlasStore
	Scenarios ScenarioSource
	Metrics   *observability.Metrics
	Gatherer  prometheus.Gatherer
}

// NewRouter wires every route.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.HandleFunc("/health", Health()).Methods(http.MethodGet)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/simulations", RunSimulation(d.Service)).Methods(http.MethodPost)
	v1.HandleFunc("/simulations/runs", ListRuns(d.Service)).Methods(http.MethodGet)
	v1.HandleFunc("/discount-presets", ListPresets()).Methods(http.MethodGet)

	if d.Projects != nil {
		v1.HandleFunc("/projects", ListProjects(d.Projects)).Methods(http.MethodGet)
		v1.HandleFunc("/projects", CreateProject(d.Projects)).Methods(http.MethodPost)
		v1.HandleFunc("/projects/preview", PreviewProject()).Methods(http.MethodPost)
		v1.HandleFunc("/projects/{id:[0-9]+}", GetProject(d.Projects)).Methods(http.MethodGet)
		v1.HandleFunc("/projects/{id:[0-9]+}", UpdateProject(d.Projects)).Methods(http.MethodPut)
		v1.HandleFunc("/projects/{id:[0-9]+}", DeleteProject(d.Projects)).Methods(http.MethodDelete)
	}
	v1.HandleFunc("/industries", ListIndustries()).Methods(http.MethodGet)

	if d.Glossary != nil {
		v1.HandleFunc("/glossary", SearchGlossary(d.Glossary)).Methods(http.MethodGet)
		v1.HandleFunc("/glossary", AddGlossaryTerm(d.Glossary)).Methods(http.MethodPost)
		v1.HandleFunc("/glossary/categories", ListGlossaryCategories(d.Glossary)).Methods(http.MethodGet)
	}

	if d.Atlas != nil {
		v1.HandleFunc("/atlas", ListCountries(d.Atlas)).Methods(http.MethodGet)
		v1.HandleFunc("/atlas/{iso}", GetCountry(d.Atlas)).Methods(http.MethodGet)
		v1.HandleFunc("/atlas/{iso}", UpsertCountry(d.Atlas)).Methods(http.MethodPut)
	}

	if d.Scenarios != nil {
		v1.HandleFunc("/electricity", ElectricityScenarios(d.Scenarios)).Methods(http.MethodGet)
	}

	calc := v1.PathPrefix("/calculators").Subrouter()
	calc.HandleFunc("/baseline", BaselineCalculator()).Methods(http.MethodPost)
	calc.HandleFunc("/ev-charging", EVChargingCalculator()).Methods(http.MethodPost)
	calc.HandleFunc("/fleet", FleetCalculator()).Methods(http.MethodPost)
	calc.HandleFunc("/waste", WasteCalculator()).Methods(http.MethodPost)
	calc.HandleFunc("/scopes", ScopesCalculator()).Methods(http.MethodPost)

	return r
}

// Health reports liveness.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
