// Package metrics exposes the site's Prometheus counters on a private
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glyengineering/glyweb/internal/forms"
	"github.com/glyengineering/glyweb/internal/navigation"
)

// OtherRoute labels paths outside the known route set.
const OtherRoute = "other"

// Metrics implements session.Observer.
type Metrics struct {
	registry *prometheus.Registry
	routes   map[string]bool

	PageViews   *prometheus.CounterVec
	Navigations *prometheus.CounterVec
	Submissions *prometheus.CounterVec
	Reveals     *prometheus.CounterVec
	Sessions    prometheus.Gauge
}

// New registers the site's metrics. routes bounds the path label; anything
// else is counted as OtherRoute.
func New(routes []string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	known := make(map[string]bool, len(routes))
	for _, r := range routes {
		known[navigation.Normalize(r)] = true
	}

	return &Metrics{
		registry: reg,
		routes:   known,

		PageViews: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "glyweb_page_views_total",
			Help: "Server-rendered page views by route",
		}, []string{"route"}),

		Navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "glyweb_navigations_total",
			Help: "Client-side route changes committed by the navigation controller",
		}, []string{"route"}),

		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "glyweb_form_submissions_total",
			Help: "Simulated form submissions completed",
		}, []string{"form"}),

		Reveals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "glyweb_reveal_animations_total",
			Help: "Scroll reveal animations played",
		}, []string{"route"}),

		Sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "glyweb_sessions_active",
			Help: "Visitor sessions currently held in memory",
		}),
	}
}

// Route maps path onto a bounded label value.
func (m *Metrics) Route(path string) string {
	path = navigation.Normalize(path)
	if m.routes[path] {
		return path
	}
	return OtherRoute
}

func (m *Metrics) PageViewed(path string) { m.PageViews.WithLabelValues(m.Route(path)).Inc() }

func (m *Metrics) NavigationCommitted(path string) {
	m.Navigations.WithLabelValues(m.Route(path)).Inc()
}

func (m *Metrics) FormSubmitted(kind forms.Kind) {
	m.Submissions.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) RevealPlayed(page string) { m.Reveals.WithLabelValues(m.Route(page)).Inc() }

func (m *Metrics) SessionsActive(n int) { m.Sessions.Set(float64(n)) }

// TrackConnections exports f as the open live channel count.
func (m *Metrics) TrackConnections(f func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "glyweb_live_connections",
		Help: "Open live channel websockets",
	}, func() float64 { return float64(f()) }))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
