// Package listing filters the static job and project collections shown on
// the Careers and Projects pages.
package listing

import (
	"strings"
)

// All is the tag value that places no constraint on a facet.
const All = "All"

// JobListing is one open position.
type JobListing struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Department  string `json:"department" yaml:"department"`
	Location    string `json:"location" yaml:"location"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// ProjectRecord is one completed project in the portfolio.
type ProjectRecord struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Industry    string   `json:"industry" yaml:"industry"`
	Service     string   `json:"service" yaml:"service"`
	Location    string   `json:"location" yaml:"location"`
	Year        string   `json:"year" yaml:"year"`
	Client      string   `json:"client" yaml:"client"`
	Duration    string   `json:"duration" yaml:"duration"`
	Value       string   `json:"value" yaml:"value"`
	Description string   `json:"description" yaml:"description"`
	Image       string   `json:"image" yaml:"image"`
	Services    []string `json:"services" yaml:"services"`
	Outcomes    []string `json:"outcomes" yaml:"outcomes"`
}

// ProjectFilter is the tag selection on the Projects page.
type ProjectFilter struct {
	Industry string `json:"industry"`
	Service  string `json:"service"`
}

// Active reports whether any facet narrows the results.
func (f ProjectFilter) Active() bool {
	return !isAll(f.Industry) || !isAll(f.Service)
}

// Normalized returns the filter with empty facets spelled as All.
func (f ProjectFilter) Normalized() ProjectFilter {
	if isAll(f.Industry) {
		f.Industry = All
	}
	if isAll(f.Service) {
		f.Service = All
	}
	return f
}

// Match reports whether p satisfies both facets.
func (f ProjectFilter) Match(p ProjectRecord) bool {
	return (isAll(f.Industry) || p.Industry == f.Industry) &&
		(isAll(f.Service) || p.Service == f.Service)
}

func isAll(tag string) bool {
	return tag == "" || tag == All
}

// MatchJob reports whether any searchable field of j contains query,
// ignoring case. The query is used as typed, whitespace included; only an
// empty query matches every job.
func MatchJob(j JobListing, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return matchLower(j, q)
}

func matchLower(j JobListing, q string) bool {
	for _, field := range []string{j.Title, j.Department, j.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterJobs returns the jobs matching query in their original order. The
// result is never nil.
func FilterJobs(jobs []JobListing, query string) []JobListing {
	q := strings.ToLower(query)
	out := make([]JobListing, 0, len(jobs))
	for _, j := range jobs {
		if q == "" || matchLower(j, q) {
			out = append(out, j)
		}
	}
	return out
}

// FilterProjects returns the projects matching f in their original order.
// The result is never nil.
func FilterProjects(projects []ProjectRecord, f ProjectFilter) []ProjectRecord {
	out := make([]ProjectRecord, 0, len(projects))
	for _, p := range projects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// FindJob looks a job up by id.
func FindJob(jobs []JobListing, id int) (JobListing, bool) {
	for _, j := range jobs {
		if j.ID == id {
			return j, true
		}
	}
	return JobListing{}, false
}

// FindProject looks a project up by id.
func FindProject(projects []ProjectRecord, id int) (ProjectRecord, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return ProjectRecord{}, false
}

// Facets counts projects per industry and per service tag.
type Facets struct {
	Industries map[string]int `json:"industries"`
	Services   map[string]int `json:"services"`
}

// CountFacets tallies the tags present in projects.
func CountFacets(projects []ProjectRecord) Facets {
	f := Facets{Industries: make(map[string]int), Services: make(map[string]int)}
	for _, p := range projects {
		f.Industries[p.Industry]++
		f.Services[p.Service]++
	}
	return f
}
