// Package handlers serves the site's pages, form posts, JSON API and static
// assets.
package handlers

import (
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	g "maragu.dev/gomponents"

	"github.com/glyengineering/glyweb/internal/components"
	"github.com/glyengineering/glyweb/internal/config"
	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/metrics"
	"github.com/glyengineering/glyweb/internal/notifications"
	"github.com/glyengineering/glyweb/internal/session"
)

// PartialHeader asks for the page body only. The client sends it when
// swapping pages after a route commits.
const PartialHeader = "X-Glyweb-Partial"

// Routes lists every page path in navigation order.
var Routes = []string{"/", "/about", "/services", "/projects", "/careers", "/contact", "/privacy", "/terms"}

// Options configures a Handler.
type Options struct {
	Content  *content.Store
	Sessions *session.Store
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Timing  components.Timing
	Cache   []config.CacheRule
	// FormRate and FormBurst limit form posts per client IP.
	FormRate  rate.Limit
	FormBurst int
}

// Handler holds the dependencies of every route.
type Handler struct {
	content  *content.Store
	sessions *session.Store
	metrics  *metrics.Metrics
	logger   *zap.Logger
	timing   components.Timing
	cache    []config.CacheRule
	limiter  *ipLimiter
	views    map[string]view
}

// New creates a Handler.
func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Cache == nil {
		opts.Cache = config.DefaultCacheRules
	}
	if opts.FormRate <= 0 {
		opts.FormRate = 1
	}
	if opts.FormBurst <= 0 {
		opts.FormBurst = 5
	}
	h := &Handler{
		content:  opts.Content,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		logger:   opts.Logger.Named("http"),
		timing:   opts.Timing,
		cache:    opts.Cache,
		limiter:  newIPLimiter(opts.FormRate, opts.FormBurst),
	}
	h.views = map[string]view{
		"/":         h.homeView,
		"/about":    h.aboutView,
		"/services": h.servicesView,
		"/projects": h.projectsView,
		"/careers":  h.careersView,
		"/contact":  h.contactView,
		"/privacy":  h.legalView("privacy"),
		"/terms":    h.legalView("terms"),
	}
	return h
}

// RegisterRoutes mounts every page, form, API and asset route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, path := range Routes {
		r.Get(path, h.handlePage(path))
	}

	r.Post("/contact", h.handleSubmit(formContact))
	r.Post("/careers/apply", h.handleSubmit(formApplication))
	r.Post("/careers/recruitment", h.handleSubmit(formRecruitment))

	r.Route("/api", func(r chi.Router) {
		r.Get("/jobs", h.handleJobs)
		r.Get("/projects", h.handleProjects)
		r.Get("/catalog", h.handleCatalog)
	})
	notifications.RegisterRoutes(r, func(r *http.Request) (*notifications.Dispatcher, bool) {
		s, ok := h.sessions.FromRequest(r)
		if !ok {
			return nil, false
		}
		return s.Notifications(), true
	})

	r.Handle("/static/*", h.handleStatic())
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler())
	}

	r.NotFound(h.handleNotFound)
}

// pageData is what a view renders from.
type pageData struct {
	// session is set only for partial renders naming a live session.
	session *session.Session
	query   url.Values
	// form replaces the view's form with a rejected submission.
	form *components.FormView
}

// view builds a page body. A zero status means 200.
type view func(d pageData) (title string, body g.Node, status int)

func (h *Handler) handlePage(path string) http.HandlerFunc {
	v := h.views[path]
	return func(w http.ResponseWriter, r *http.Request) {
		d := pageData{query: r.URL.Query()}
		if isPartial(r) {
			d.session, _ = h.sessions.FromRequest(r)
		}
		h.render(w, r, path, v, d, 0)
	}
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, r.URL.Path, h.notFoundView(r.URL.Path), pageData{query: r.URL.Query()}, 0)
}

func isPartial(r *http.Request) bool {
	return r.Header.Get(PartialHeader) == "1"
}

// render writes the page for path. Partial requests get the page body alone.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, path string, v view, d pageData, status int) {
	title, body, st := v(d)
	if status == 0 {
		status = st
	}
	if status == 0 {
		status = http.StatusOK
	}

	var node g.Node
	if isPartial(r) {
		node = components.PageBody(path, components.PageTitle(h.content, title), body)
	} else {
		// A full GET is a fresh application load. Its live channel opens a
		// new session that clears the overlay.
		cfg := components.PageConfig{
			Path:    path,
			Title:   title,
			Timing:  h.timing,
			Loading: r.Method == http.MethodGet,
			Toasts:  h.sessions.TakeFlash(r),
		}
		node = components.Layout(h.content, cfg, body)
	}

	if h.metrics != nil && status < http.StatusBadRequest {
		h.metrics.PageViewed(path)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		h.logger.Warn("render failed", zap.String("path", path), zap.Error(err))
	}
}

// RenderStatic writes the complete document for path with no session and no
// live channel, as the static export needs it.
func (h *Handler) RenderStatic(w io.Writer, path string) error {
	v, ok := h.views[path]
	if !ok {
		v = h.notFoundView(path)
	}
	title, body, _ := v(pageData{query: url.Values{}})
	return components.Layout(h.content, components.PageConfig{
		Path:    path,
		Title:   title,
		Timing:  h.timing,
		Loading: true,
		Static:  true,
	}, body).Render(w)
}
