package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/glyengineering/glyweb/internal/forms"
	"github.com/glyengineering/glyweb/internal/session"
)

var _ session.Observer = (*Metrics)(nil)

func TestRouteLabels(t *testing.T) {
	m := New([]string{"/", "/careers"})

	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/careers/", "/careers"},
		{"careers", "/careers"},
		{"/wp-admin", OtherRoute},
	}
	for _, tt := range tests {
		if got := m.Route(tt.path); got != tt.want {
			t.Errorf("Route(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestObserverCounters(t *testing.T) {
	m := New([]string{"/", "/about"})

	m.PageViewed("/about")
	m.PageViewed("/nope")
	m.NavigationCommitted("/about")
	m.FormSubmitted(forms.KindContact)
	m.FormSubmitted(forms.KindContact)
	m.RevealPlayed("/")
	m.SessionsActive(3)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"page views /about", testutil.ToFloat64(m.PageViews.WithLabelValues("/about")), 1},
		{"page views other", testutil.ToFloat64(m.PageViews.WithLabelValues(OtherRoute)), 1},
		{"navigations", testutil.ToFloat64(m.Navigations.WithLabelValues("/about")), 1},
		{"submissions", testutil.ToFloat64(m.Submissions.WithLabelValues("contact")), 2},
		{"reveals", testutil.ToFloat64(m.Reveals.WithLabelValues("/")), 1},
		{"sessions", testutil.ToFloat64(m.Sessions), 3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestHandler(t *testing.T) {
	m := New([]string{"/"})
	m.TrackConnections(func() int { return 2 })
	m.PageViewed("/")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(w.Body)

	for _, want := range []string{
		`glyweb_page_views_total{route="/"} 1`,
		"glyweb_live_connections 2",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
