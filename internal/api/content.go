package api

import (
	"net/http"
	"slices"

	"github.com/gorilla/mux"

	"CarbonCompendium/internal/atlas"
	"CarbonCompendium/internal/collector"
	"CarbonCompendium/internal/glossary"
	"CarbonCompendium/internal/model"
)

// SearchGlossary searches terms with ?q= or lists them by ?category=.
// ?group=letter returns the A-Z grouping instead of a flat list.
func SearchGlossary(store GlossaryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var (
			terms []model.GlossaryTerm
			err   error
		)
		if query := q.Get("q"); query != "" {
			terms, err = store.Search(r.Context(), query, q.Get("category"))
		} else {
			terms, err = store.All(r.Context(), q.Get("category"))
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		if terms == nil {
			terms = []model.GlossaryTerm{}
		}
		if q.Get("group") == "letter" {
			writeJSON(w, http.StatusOK, glossary.GroupByLetter(terms))
			return
		}
		writeJSON(w, http.StatusOK, terms)
	}
}

// AddGlossaryTerm appends a term to the glossary.
func AddGlossaryTerm(store GlossaryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t model.GlossaryTerm
		if !decodeJSON(w, r, &t) {
			return
		}
		if err := store.Add(r.Context(), &t); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

// ListGlossaryCategories returns the distinct categories.
func ListGlossaryCategories(store GlossaryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := store.Categories(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

type countryView struct {
	model.CountryProfile
	CommodityList []string `json:"commodity_list"`
}

// ListCountries returns every atlas profile.
func ListCountries(store AtlasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countries, err := store.List(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		out := make([]countryView, 0, len(countries))
		for _, c := range countries {
			out = append(out, countryView{CountryProfile: c, CommodityList: atlas.Commodities(c)})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"editing_enabled": store.EditingEnabled(),
			"countries":       out,
		})
	}
}

// GetCountry returns one atlas profile by ISO alpha-3 code.
func GetCountry(store AtlasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Get(r.Context(), mux.Vars(r)["iso"])
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, countryView{CountryProfile: *c, CommodityList: atlas.Commodities(*c)})
	}
}

// UpsertCountry saves a profile. The X-Admin-Pass header must match the
// configured admin password.
func UpsertCountry(store AtlasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.EditingEnabled() {
			writeError(w, http.StatusForbidden, "atlas editing is disabled")
			return
		}
		var c model.CountryProfile
		if !decodeJSON(w, r, &c) {
			return
		}
		c.ISOA3 = mux.Vars(r)["iso"]
		if err := store.Upsert(r.Context(), r.Header.Get("X-Admin-Pass"), c); err != nil {
			writeErr(w, err)
			return
		}
		saved, err := store.Get(r.Context(), c.ISOA3)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

// ElectricityScenarios returns the tariff scenario dataset, optionally for
// one ?sector=. ?refresh=true refetches the history first.
func ElectricityScenarios(src ScenarioSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sector := r.URL.Query().Get("sector")
		if sector != "" && !slices.Contains(collector.Sectors, sector) {
			writeError(w, http.StatusBadRequest, "unknown sector "+sector)
			return
		}

		load := src.Dataset
		if r.URL.Query().Get("refresh") == "true" {
			load = src.Refresh
		}
		ds, err := load()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ds.Filter(sector))
	}
}
