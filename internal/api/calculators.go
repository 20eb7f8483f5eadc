package api

import (
	"net/http"

	"CarbonCompendium/internal/calculator"
	"CarbonCompendium/internal/model"
)

type baselineRequest struct {
	Industry          string  `json:"industry"`
	BaselineIntensity float64 `json:"baseline_intensity"`
	OutputTonnes      float64 `json:"output_tonnes"`
	ActualEmissions   float64 `json:"actual_emissions"`
	Leakage           float64 `json:"leakage"`
}

// BaselineCalculator estimates credits from an industry (or an explicit
// intensity) and the project's output and emissions.
func BaselineCalculator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req baselineRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		var (
			preview *model.CreditPreview
			err     error
		)
		if req.BaselineIntensity == 0 && req.Industry != "" {
			preview, err = calculator.Preview(req.Industry, req.OutputTonnes, req.ActualEmissions, req.Leakage)
		} else {
			preview, err = calculator.PreviewWithIntensity(req.BaselineIntensity, req.OutputTonnes, req.ActualEmissions, req.Leakage)
			if preview != nil {
				preview.Industry = req.Industry
			}
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, preview)
	}
}

// EVChargingCalculator compares an EV trip against an ICE equivalent.
func EVChargingCalculator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.EVChargingInput
		if !decodeJSON(w, r, &in) {
			return
		}
		res, err := calculator.EVCharging(in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// FleetCalculator totals fleet fuel use and CO2.
func FleetCalculator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.FleetInput
		if !decodeJSON(w, r, &in) {
			return
		}
		res, err := calculator.Fleet(in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// WasteCalculator estimates emissions avoided by recycling.
func WasteCalculator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Streams []model.WasteStream `json:"streams"`
		}
		if !decodeJSON(w, r, &in) {
			return
		}
		res, err := calculator.WasteRecycling(in.Streams)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ScopesCalculator splits an inventory into GHG scopes.
func ScopesCalculator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.ScopesInput
		if !decodeJSON(w, r, &in) {
			return
		}
		res, err := calculator.Scopes(in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
