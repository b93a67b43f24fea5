package site

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"strings"

	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/listing"
)

// Listings is what an exported copy filters client-side.
type Listings struct {
	Jobs     []listing.JobListing    `json:"jobs"`
	Projects []listing.ProjectRecord `json:"projects"`
	Facets   listing.Facets          `json:"facets"`
	// Industries and Services keep the chip order of the live site.
	Industries []string `json:"industries"`
	Services   []string `json:"services"`
}

// BuildListings collects the jobs, projects and facets from c.
func BuildListings(c *content.Store) Listings {
	projects := c.Projects()
	return Listings{
		Jobs:       c.Jobs(),
		Projects:   projects,
		Facets:     listing.CountFacets(projects),
		Industries: c.Industries(),
		Services:   c.ServiceTags(),
	}
}

// WriteListings writes l as indented JSON.
func WriteListings(l Listings, outputPath string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// WriteSitemap writes a sitemap listing every route under baseURL.
func WriteSitemap(baseURL string, routes []string, outputPath string) error {
	baseURL = strings.TrimRight(baseURL, "/")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, r := range routes {
		set.URLs = append(set.URLs, sitemapURL{Loc: baseURL + r})
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append([]byte(xml.Header), data...), 0o644)
}
