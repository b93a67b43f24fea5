// Package content holds the site's static copy and listings. The catalog is
// read once and never mutated; accessors hand out copies.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/glyengineering/glyweb/internal/listing"
)

//go:embed catalog.yaml legal/*.md
var embedded embed.FS

// ErrNotFound is returned for unknown jobs, projects and legal pages.
var ErrNotFound = errors.New("content: not found")

// Link is a labelled internal or external link.
type Link struct {
	Label string `yaml:"label" json:"label"`
	Path  string `yaml:"path" json:"path"`
}

// Social is a footer social-media link.
type Social struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// Company is the organisation's identity and contact details.
type Company struct {
	Name      string   `yaml:"name" json:"name"`
	ShortName string   `yaml:"short_name" json:"short_name"`
	Tagline   string   `yaml:"tagline" json:"tagline"`
	Summary   string   `yaml:"summary" json:"summary"`
	Logo      string   `yaml:"logo" json:"logo"`
	Address   []string `yaml:"address" json:"address"`
	Phone     string   `yaml:"phone" json:"phone"`
	PhoneHref string   `yaml:"phone_href" json:"phone_href"`
	Email     string   `yaml:"email" json:"email"`
	Hours     string   `yaml:"hours" json:"hours"`
	Socials   []Social `yaml:"socials" json:"socials"`
}

// Hero is the home page banner.
type Hero struct {
	Title      string `yaml:"title" json:"title"`
	Highlight  string `yaml:"highlight" json:"highlight"`
	Subtitle   string `yaml:"subtitle" json:"subtitle"`
	Image      string `yaml:"image" json:"image"`
	BadgeValue string `yaml:"badge_value" json:"badge_value"`
	BadgeLabel string `yaml:"badge_label" json:"badge_label"`
}

// Stat is a headline number.
type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Capability is a home page service teaser.
type Capability struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Anchor      string `yaml:"anchor" json:"anchor"`
}

// ServiceLine is one section of the Services page.
type ServiceLine struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	Items       []string `yaml:"items" json:"items"`
}

// Channel is a way to reach the company.
type Channel struct {
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content" json:"content"`
	Detail  string `yaml:"detail" json:"detail"`
	Href    string `yaml:"href" json:"href,omitempty"`
}

// Blurb is a titled short description.
type Blurb struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// About is the About page copy.
type About struct {
	Intro     string   `yaml:"intro" json:"intro"`
	Story     []string `yaml:"story" json:"story"`
	Offerings []Blurb  `yaml:"offerings" json:"offerings"`
	Values    []Blurb  `yaml:"values" json:"values"`
}

// Careers is the Careers page copy around the job list.
type Careers struct {
	Purpose []string `yaml:"purpose" json:"purpose"`
	Image   string   `yaml:"image" json:"image"`
}

// Catalog is everything the site renders that is not markup.
type Catalog struct {
	Company          Company                 `yaml:"company" json:"company"`
	Navigation       []Link                  `yaml:"navigation" json:"navigation"`
	FooterLinks      []Link                  `yaml:"footer_links" json:"footer_links"`
	Phrases          []string                `yaml:"phrases" json:"phrases"`
	Hero             Hero                    `yaml:"hero" json:"hero"`
	Brands           []string                `yaml:"brands" json:"brands"`
	Stats            []Stat                  `yaml:"stats" json:"stats"`
	Capabilities     []Capability            `yaml:"capabilities" json:"capabilities"`
	ServiceLines     []ServiceLine           `yaml:"service_lines" json:"service_lines"`
	Industries       []string                `yaml:"industries" json:"industries"`
	ServiceTags      []string                `yaml:"service_tags" json:"service_tags"`
	Channels         []Channel               `yaml:"channels" json:"channels"`
	MapEmbedURL      string                  `yaml:"map_embed_url" json:"map_embed_url"`
	About            About                   `yaml:"about" json:"about"`
	Careers          Careers                 `yaml:"careers" json:"careers"`
	FeaturedProjects []int                   `yaml:"featured_projects" json:"featured_projects"`
	Jobs             []listing.JobListing    `yaml:"jobs" json:"jobs"`
	Projects         []listing.ProjectRecord `yaml:"projects" json:"projects"`
}

// LegalPage is a rendered long-form page.
type LegalPage struct {
	Slug  string
	Title string
	HTML  string
}

// LegalSlugs lists the legal pages in footer order.
var LegalSlugs = []string{"privacy", "terms"}

// Store serves an immutable catalog plus its rendered legal pages.
type Store struct {
	catalog Catalog
	legal   map[string]LegalPage
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Default returns the embedded catalog, parsed on first use.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		data, err := embedded.ReadFile("catalog.yaml")
		if err != nil {
			defaultErr = fmt.Errorf("reading embedded catalog: %w", err)
			return
		}
		defaultStore, defaultErr = Parse(data)
	})
	return defaultStore, defaultErr
}

// Load reads a catalog file that replaces the embedded one. An empty path
// returns Default.
func Load(path string) (*Store, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Store, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	legal, err := renderLegal()
	if err != nil {
		return nil, err
	}
	return &Store{catalog: c, legal: legal}, nil
}

// Validate checks the catalog's invariants.
func (c *Catalog) Validate() error {
	if len(c.Phrases) == 0 {
		return fmt.Errorf("catalog: phrases must not be empty")
	}
	jobIDs := make(map[int]bool, len(c.Jobs))
	for _, j := range c.Jobs {
		if jobIDs[j.ID] {
			return fmt.Errorf("catalog: duplicate job id %d", j.ID)
		}
		jobIDs[j.ID] = true
	}

	industries := toSet(c.Industries)
	services := toSet(c.ServiceTags)
	projectIDs := make(map[int]bool, len(c.Projects))
	for _, p := range c.Projects {
		if projectIDs[p.ID] {
			return fmt.Errorf("catalog: duplicate project id %d", p.ID)
		}
		projectIDs[p.ID] = true
		if !industries[p.Industry] {
			return fmt.Errorf("catalog: project %d has unknown industry %q", p.ID, p.Industry)
		}
		if !services[p.Service] {
			return fmt.Errorf("catalog: project %d has unknown service %q", p.ID, p.Service)
		}
	}
	for _, id := range c.FeaturedProjects {
		if !projectIDs[id] {
			return fmt.Errorf("catalog: featured project %d does not exist", id)
		}
	}
	return nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func renderLegal() (map[string]LegalPage, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	pages := make(map[string]LegalPage, len(LegalSlugs))
	for _, slug := range LegalSlugs {
		src, err := embedded.ReadFile("legal/" + slug + ".md")
		if err != nil {
			return nil, fmt.Errorf("reading legal page %s: %w", slug, err)
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("converting legal page %s: %w", slug, err)
		}
		pages[slug] = LegalPage{Slug: slug, Title: firstHeading(src), HTML: buf.String()}
	}
	return pages, nil
}

func firstHeading(src []byte) string {
	for _, line := range strings.Split(string(src), "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// Catalog returns a deep copy of the whole catalog.
func (s *Store) Catalog() Catalog {
	c := s.catalog
	c.Navigation = cloneSlice(c.Navigation)
	c.FooterLinks = cloneSlice(c.FooterLinks)
	c.Phrases = cloneSlice(c.Phrases)
	c.Brands = cloneSlice(c.Brands)
	c.Stats = cloneSlice(c.Stats)
	c.Capabilities = cloneSlice(c.Capabilities)
	c.ServiceLines = s.ServiceLines()
	c.Industries = cloneSlice(c.Industries)
	c.ServiceTags = cloneSlice(c.ServiceTags)
	c.Channels = cloneSlice(c.Channels)
	c.FeaturedProjects = cloneSlice(c.FeaturedProjects)
	c.Jobs = s.Jobs()
	c.Projects = s.Projects()
	c.Company.Address = cloneSlice(c.Company.Address)
	c.Company.Socials = cloneSlice(c.Company.Socials)
	c.About.Story = cloneSlice(c.About.Story)
	c.About.Offerings = cloneSlice(c.About.Offerings)
	c.About.Values = cloneSlice(c.About.Values)
	c.Careers.Purpose = cloneSlice(c.Careers.Purpose)
	return c
}

func (s *Store) Company() Company {
	c := s.catalog.Company
	c.Address = cloneSlice(c.Address)
	c.Socials = cloneSlice(c.Socials)
	return c
}

func (s *Store) Navigation() []Link { return cloneSlice(s.catalog.Navigation) }

func (s *Store) FooterLinks() []Link { return cloneSlice(s.catalog.FooterLinks) }

func (s *Store) Phrases() []string { return cloneSlice(s.catalog.Phrases) }

func (s *Store) Hero() Hero { return s.catalog.Hero }

func (s *Store) Brands() []string { return cloneSlice(s.catalog.Brands) }

func (s *Store) Stats() []Stat { return cloneSlice(s.catalog.Stats) }

func (s *Store) Channels() []Channel { return cloneSlice(s.catalog.Channels) }

func (s *Store) MapEmbedURL() string { return s.catalog.MapEmbedURL }

func (s *Store) Capabilities() []Capability { return cloneSlice(s.catalog.Capabilities) }

// ServiceLines returns the Services page sections.
func (s *Store) ServiceLines() []ServiceLine {
	out := cloneSlice(s.catalog.ServiceLines)
	for i := range out {
		out[i].Items = cloneSlice(out[i].Items)
	}
	return out
}

// Industries returns the industry facet values, led by listing.All.
func (s *Store) Industries() []string {
	return append([]string{listing.All}, s.catalog.Industries...)
}

// ServiceTags returns the service facet values, led by listing.All.
func (s *Store) ServiceTags() []string {
	return append([]string{listing.All}, s.catalog.ServiceTags...)
}

// About returns the About page copy.
func (s *Store) About() About {
	a := s.catalog.About
	a.Story = cloneSlice(a.Story)
	a.Offerings = cloneSlice(a.Offerings)
	a.Values = cloneSlice(a.Values)
	return a
}

// Careers returns the Careers page copy.
func (s *Store) Careers() Careers {
	c := s.catalog.Careers
	c.Purpose = cloneSlice(c.Purpose)
	return c
}

// Jobs returns every job listing in catalog order.
func (s *Store) Jobs() []listing.JobListing {
	return cloneSlice(s.catalog.Jobs)
}

// Projects returns every project in catalog order.
func (s *Store) Projects() []listing.ProjectRecord {
	out := cloneSlice(s.catalog.Projects)
	for i := range out {
		out[i].Services = cloneSlice(out[i].Services)
		out[i].Outcomes = cloneSlice(out[i].Outcomes)
	}
	return out
}

// FeaturedProjects returns the projects teased on the home page.
func (s *Store) FeaturedProjects() []listing.ProjectRecord {
	all := s.Projects()
	out := make([]listing.ProjectRecord, 0, len(s.catalog.FeaturedProjects))
	for _, id := range s.catalog.FeaturedProjects {
		if p, ok := listing.FindProject(all, id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Job looks up one job.
func (s *Store) Job(id int) (listing.JobListing, error) {
	j, ok := listing.FindJob(s.catalog.Jobs, id)
	if !ok {
		return listing.JobListing{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return j, nil
}

// Project looks up one project.
func (s *Store) Project(id int) (listing.ProjectRecord, error) {
	p, ok := listing.FindProject(s.Projects(), id)
	if !ok {
		return listing.ProjectRecord{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// Legal returns a rendered legal page by slug.
func (s *Store) Legal(slug string) (LegalPage, error) {
	p, ok := s.legal[slug]
	if !ok {
		return LegalPage{}, fmt.Errorf("legal page %q: %w", slug, ErrNotFound)
	}
	return p, nil
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append([]T(nil), in...)
}
