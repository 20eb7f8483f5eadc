package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"CarbonCompendium/internal/atlas"
	"CarbonCompendium/internal/calculator"
	"CarbonCompendium/internal/glossary"
	"CarbonCompendium/internal/montecarlo"
	"CarbonCompendium/internal/registry"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps domain errors to status codes.
func writeErr(w http.ResponseWriter, err error) {
	var cfgErr *montecarlo.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, atlas.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, atlas.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, registry.ErrNameMissing),
		errors.Is(err, atlas.ErrInvalidISO),
		errors.Is(err, glossary.ErrTermMissing),
		errors.Is(err, calculator.ErrNegativeInput),
		errors.Is(err, calculator.ErrUnknownIndustry),
		errors.Is(err, calculator.ErrUnknownFuel),
		errors.Is(err, calculator.ErrUnknownMaterial),
		errors.Is(err, calculator.ErrInvalidFraction),
		errors.Is(err, calculator.ErrInvalidPercent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}
