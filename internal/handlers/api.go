package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/glyengineering/glyweb/internal/listing"
)

type jobsResponse struct {
	Query string               `json:"query"`
	Jobs  []listing.JobListing `json:"jobs"`
	Total int                  `json:"total"`
}

type projectsResponse struct {
	Filter   listing.ProjectFilter   `json:"filter"`
	Active   bool                    `json:"active"`
	Projects []listing.ProjectRecord `json:"projects"`
	Total    int                     `json:"total"`
	Facets   listing.Facets          `json:"facets"`
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	jobs := listing.FilterJobs(h.content.Jobs(), q)
	if jobs == nil {
		jobs = []listing.JobListing{}
	}
	writeJSON(w, http.StatusOK, jobsResponse{Query: q, Jobs: jobs, Total: len(jobs)})
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	f := listing.ProjectFilter{
		Industry: r.URL.Query().Get("industry"),
		Service:  r.URL.Query().Get("service"),
	}.Normalized()
	all := h.content.Projects()
	projects := listing.FilterProjects(all, f)
	if projects == nil {
		projects = []listing.ProjectRecord{}
	}
	writeJSON(w, http.StatusOK, projectsResponse{
		Filter:   f,
		Active:   f.Active(),
		Projects: projects,
		Total:    len(projects),
		Facets:   listing.CountFacets(all),
	})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.Catalog())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
