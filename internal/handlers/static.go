package handlers

import (
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/glyengineering/glyweb/internal/components"
	"github.com/glyengineering/glyweb/internal/config"
)

// handleStatic serves the embedded assets under /static/.
func (h *Handler) handleStatic() http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(components.Static())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/static/")
		if control := CacheControl(h.cache, name); control != "" {
			w.Header().Set("Cache-Control", control)
		}
		files.ServeHTTP(w, r)
	})
}

// CacheControl returns the Cache-Control value of the first rule matching
// name, or "" when none does.
func CacheControl(rules []config.CacheRule, name string) string {
	for _, rule := range rules {
		if ok, _ := doublestar.Match(rule.Pattern, name); ok {
			return rule.Control
		}
	}
	return ""
}
