// Package site exports the rendered site to a directory of static files.
package site

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/glyengineering/glyweb/internal/content"
)

// Renderer writes the full document for a route.
type Renderer interface {
	RenderStatic(w io.Writer, route string) error
}

// Generator renders every route plus the assets and listings into OutputDir.
type Generator struct {
	Renderer  Renderer
	Content   *content.Store
	OutputDir string
	// BaseURL prefixes sitemap entries. The sitemap is skipped when empty.
	BaseURL string
	Routes  []string
	// Assets is copied to OutputDir/static.
	Assets fs.FS
	// Progress, when set, is called after each file is written.
	Progress func(done, total int, name string)
}

// Generate builds the full static export. Returns the number of files written.
func (g *Generator) Generate() (int, error) {
	var assets []string
	if g.Assets != nil {
		err := fs.WalkDir(g.Assets, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				assets = append(assets, p)
			}
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("walking assets: %w", err)
		}
	}

	total := len(g.Routes) + 1 + len(assets) + 1
	if g.BaseURL != "" {
		total++
	}
	done := 0
	step := func(name string) {
		done++
		if g.Progress != nil {
			g.Progress(done, total, name)
		}
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	for _, route := range g.Routes {
		rel := routeFile(route)
		if err := g.renderPage(route, rel); err != nil {
			return done, fmt.Errorf("rendering %s: %w", route, err)
		}
		step(rel)
	}
	if err := g.renderPage("/404", "404.html"); err != nil {
		return done, fmt.Errorf("rendering 404 page: %w", err)
	}
	step("404.html")

	for _, name := range assets {
		if err := g.copyAsset(name); err != nil {
			return done, fmt.Errorf("copying %s: %w", name, err)
		}
		step(path.Join("static", name))
	}

	listings := BuildListings(g.Content)
	if err := WriteListings(listings, filepath.Join(g.OutputDir, "listings.json")); err != nil {
		return done, fmt.Errorf("writing listings: %w", err)
	}
	step("listings.json")

	if g.BaseURL != "" {
		if err := WriteSitemap(g.BaseURL, g.Routes, filepath.Join(g.OutputDir, "sitemap.xml")); err != nil {
			return done, fmt.Errorf("writing sitemap: %w", err)
		}
		step("sitemap.xml")
	}

	return done, nil
}

// routeFile maps /about to about/index.html.
func routeFile(route string) string {
	route = strings.Trim(route, "/")
	if route == "" {
		return "index.html"
	}
	return route + "/index.html"
}

func (g *Generator) renderPage(route, rel string) error {
	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return g.Renderer.RenderStatic(f, route)
}

func (g *Generator) copyAsset(name string) error {
	data, err := fs.ReadFile(g.Assets, name)
	if err != nil {
		return err
	}
	outPath := filepath.Join(g.OutputDir, "static", filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
