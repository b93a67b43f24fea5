package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glyengineering/glyweb/internal/listing"
)

func mustDefault(t *testing.T) *Store {
	t.Helper()
	s, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return s
}

func TestDefaultCatalog(t *testing.T) {
	s := mustDefault(t)

	if len(s.Jobs()) == 0 || len(s.Projects()) == 0 {
		t.Fatal("embedded catalog has no listings")
	}
	if got := s.Phrases(); len(got) != 3 || got[0] != "Designed for Impact" {
		t.Errorf("Phrases = %v", got)
	}
	if s.Industries()[0] != listing.All || s.ServiceTags()[0] != listing.All {
		t.Error("facets should lead with All")
	}
	if len(s.Navigation()) != 6 {
		t.Errorf("Navigation = %d items", len(s.Navigation()))
	}

	again, _ := Default()
	if again != s {
		t.Error("Default should return the same store")
	}
}

func TestCatalogContainsWelder(t *testing.T) {
	s := mustDefault(t)
	got := listing.FilterJobs(s.Jobs(), "WELD")
	found := false
	for _, j := range got {
		if j.Title == "Welder" && j.Department == "Trades" {
			found = true
		}
	}
	if !found {
		t.Errorf("WELD search = %+v, want the Welder listing", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := mustDefault(t)

	jobs := s.Jobs()
	jobs[0].Title = "changed"
	if s.Jobs()[0].Title == "changed" {
		t.Error("Jobs leaked internal slice")
	}

	projects := s.Projects()
	projects[0].Outcomes[0] = "changed"
	if s.Projects()[0].Outcomes[0] == "changed" {
		t.Error("Projects leaked nested slice")
	}

	ind := s.Industries()
	ind[1] = "changed"
	if s.Industries()[1] == "changed" {
		t.Error("Industries leaked internal slice")
	}
}

func TestLookup(t *testing.T) {
	s := mustDefault(t)

	if _, err := s.Job(11); err != nil {
		t.Errorf("Job(11): %v", err)
	}
	if _, err := s.Job(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Job(9999) = %v, want ErrNotFound", err)
	}
	if _, err := s.Project(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Project(9999) = %v, want ErrNotFound", err)
	}
	if got := s.FeaturedProjects(); len(got) != 3 {
		t.Errorf("FeaturedProjects = %d", len(got))
	}
}

func TestLegalPages(t *testing.T) {
	s := mustDefault(t)

	for _, slug := range LegalSlugs {
		p, err := s.Legal(slug)
		if err != nil {
			t.Fatalf("Legal(%q): %v", slug, err)
		}
		if p.Title == "" {
			t.Errorf("%s: empty title", slug)
		}
		if !strings.Contains(p.HTML, "<h2") {
			t.Errorf("%s: markdown not rendered: %q", slug, p.HTML[:min(80, len(p.HTML))])
		}
	}
	if _, err := s.Legal("cookies"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Legal(cookies) = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "duplicate job",
			yaml: `phrases: [a]
jobs:
  - {id: 1, title: A}
  - {id: 1, title: B}`,
			wantErr: "duplicate job id 1",
		},
		{
			name: "duplicate project",
			yaml: `phrases: [a]
industries: [Energy]
service_tags: [Design]
projects:
  - {id: 2, industry: Energy, service: Design}
  - {id: 2, industry: Energy, service: Design}`,
			wantErr: "duplicate project id 2",
		},
		{
			name: "unknown industry",
			yaml: `phrases: [a]
industries: [Energy]
service_tags: [Design]
projects:
  - {id: 1, industry: Mining, service: Design}`,
			wantErr: "unknown industry",
		},
		{
			name:    "no phrases",
			yaml:    `jobs: []`,
			wantErr: "phrases",
		},
		{
			name: "missing featured",
			yaml: `phrases: [a]
featured_projects: [7]`,
			wantErr: "featured project 7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := `phrases: [Only One]
industries: [Energy]
service_tags: [Design]
jobs:
  - {id: 1, title: Welder, department: Trades, location: Remote}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.Phrases(); len(got) != 1 || got[0] != "Only One" {
		t.Errorf("Phrases = %v", got)
	}
	if len(s.Jobs()) != 1 {
		t.Errorf("Jobs = %d", len(s.Jobs()))
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
