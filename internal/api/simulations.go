package api

import (
	"net/http"
	"strconv"

	"CarbonCompendium/internal/montecarlo"
	"CarbonCompendium/internal/recorder"
	"CarbonCompendium/internal/service"
)

const (
	defaultRunLimit = 10
	maxRunLimit     = 100
)

// RunSimulation runs a Monte Carlo simulation. Per-trial arrays are only
// returned with ?arrays=true.
func RunSimulation(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.Request
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Source = recorder.SourceAPI

		res, err := svc.Run(r.Context(), req)
		if err != nil {
			writeErr(w, err)
			return
		}
		if r.URL.Query().Get("arrays") != "true" {
			res = res.WithoutArrays()
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ListRuns returns the most recent recorded runs.
func ListRuns(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRunLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxRunLimit)
		}

		runs, err := svc.Recent(r.Context(), limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

// ListPresets returns the discount rate options.
func ListPresets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"presets":         montecarlo.Presets(),
			"custom_min_rate": montecarlo.MinCustomRatePercent,
			"custom_max_rate": montecarlo.MaxCustomRatePercent,
		})
	}
}
