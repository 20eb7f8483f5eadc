package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"CarbonCompendium/internal/calculator"
	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/registry"
)

// ListProjects returns all registered projects.
func ListProjects(store registry.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := store.List(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		if projects == nil {
			projects = []model.Project{}
		}
		writeJSON(w, http.StatusOK, projects)
	}
}

// CreateProject registers a project and returns it with its credits.
func CreateProject(store registry.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Project
		if !decodeJSON(w, r, &p) {
			return
		}
		p.ID = 0
		if err := store.Create(r.Context(), &p); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// GetProject returns a single project by ID.
func GetProject(store registry.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.Get(r.Context(), projectID(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// UpdateProject replaces a project's fields and recomputes its credits.
func UpdateProject(store registry.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Project
		if !decodeJSON(w, r, &p) {
			return
		}
		p.ID = projectID(r)
		if err := store.Update(r.Context(), &p); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// DeleteProject removes a project.
func DeleteProject(store registry.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), projectID(r)); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PreviewProject computes credits without saving anything.
func PreviewProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Project
		if !decodeJSON(w, r, &p) {
			return
		}
		preview, err := calculator.PreviewWithIntensity(p.BaselineIntensity, p.OutputTonnes, p.ActualEmissions, p.Leakage)
		if err != nil {
			writeErr(w, err)
			return
		}
		preview.Industry = p.Industry
		writeJSON(w, http.StatusOK, preview)
	}
}

// ListIndustries returns the industry baseline table.
func ListIndustries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, calculator.Industries())
	}
}

// The route pattern only admits digits, so only overflow can fail here.
func projectID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
