// Package observability holds the Prometheus metrics of the compendium.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"CarbonCompendium/internal/model"
)

// Simulation statuses.
const (
	StatusOK      = "ok"
	StatusCached  = "cached"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics for simulations and the API.
type Metrics struct {
	// Simulation metrics
	Simulations        *prometheus.CounterVec
	Trials             prometheus.Counter
	Omitted            *prometheus.CounterVec
	SimulationDuration prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Simulations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compendium_simulations_total",
				Help: "Total number of Monte Carlo simulations requested",
			},
			[]string{"source", "status"}, // source: api, schedule, command
		),

		Trials: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "compendium_simulation_trials_total",
				Help: "Total number of Monte Carlo trials evaluated",
			},
		),

		Omitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compendium_simulation_omitted_total",
				Help: "Trials whose metric was undefined and left out of its aggregate",
			},
			[]string{"metric"}, // metric: roi, irr, breakeven
		),

		SimulationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "compendium_simulation_duration_seconds",
				Help:    "Wall time of a simulation run",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compendium_http_requests_total",
				Help: "HTTP requests by route template and status code",
			},
			[]string{"route", "code"},
		),
	}
}

// ObserveRun records a completed simulation.
func (m *Metrics) ObserveRun(source string, sum model.SimulationSummary, elapsed time.Duration) {
	m.Simulations.WithLabelValues(source, StatusOK).Inc()
	m.Trials.Add(float64(sum.Trials))
	m.Omitted.WithLabelValues("roi").Add(float64(sum.ROIOmitted))
	m.Omitted.WithLabelValues("irr").Add(float64(sum.IRROmitted))
	m.Omitted.WithLabelValues("breakeven").Add(float64(sum.BreakevenOmit))
	m.SimulationDuration.Observe(elapsed.Seconds())
}

// ObserveStatus counts a simulation that did not run to completion.
func (m *Metrics) ObserveStatus(source, status string) {
	m.Simulations.WithLabelValues(source, status).Inc()
}

// Middleware counts requests by mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
