package components

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/forms"
	"github.com/glyengineering/glyweb/internal/listing"
	"github.com/glyengineering/glyweb/internal/notifications"
	"github.com/glyengineering/glyweb/internal/typing"
)

func catalog(t *testing.T) *content.Store {
	t.Helper()
	c, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	return c
}

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestLayout(t *testing.T) {
	c := catalog(t)
	html := render(t, Layout(c, PageConfig{
		Path:    "/careers",
		Title:   "Careers",
		Loading: true,
		Toasts: []notifications.Notification{
			{ID: "n1", Kind: notifications.KindSuccess, Message: "Message sent!"},
		},
		Timing: Timing{InitialLoad: 2 * time.Second, Transition: 1500 * time.Millisecond},
	}, P()))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Careers | GLY Engineering</title>",
		`data-initial-load-ms="2000"`,
		`data-transition-ms="1500"`,
		`data-live="/ws/live"`,
		`id="loading-overlay"`,
		`data-toast="n1"`,
		"Message sent!",
		"Privacy Policy",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("layout missing %q", want)
		}
	}
	if strings.Contains(html, `id="loading-overlay" class="loading-overlay" hidden`) {
		t.Error("overlay should be visible while loading")
	}
}

func TestStaticLayoutHasNoLiveChannel(t *testing.T) {
	html := render(t, Layout(catalog(t), PageConfig{Path: "/", Static: true}))
	if strings.Contains(html, "data-live") {
		t.Error("static pages must not open the live channel")
	}
	if !strings.Contains(html, " hidden") {
		t.Error("overlay should start hidden when not loading")
	}
}

func TestHeaderActiveLink(t *testing.T) {
	c := catalog(t)
	tests := []struct {
		current string
		active  string
	}{
		{"/", `href="/" class="site-header__link is-active"`},
		{"/careers", `href="/careers" class="site-header__link is-active"`},
		{"/projects/", `href="/projects" class="site-header__link is-active"`},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			html := render(t, SiteHeader(c, tt.current))
			if !strings.Contains(html, tt.active) {
				t.Errorf("expected %q in header", tt.active)
			}
			if n := strings.Count(html, "site-header__link is-active"); n != 1 {
				t.Errorf("%d active desktop links, want 1", n)
			}
		})
	}
}

func TestHomeTypingFrame(t *testing.T) {
	html := render(t, PageBody("/", "", HomePage(catalog(t), typing.Frame{Text: "Desig", Phase: typing.Typing})))
	if !strings.Contains(html, `<span id="typing-text" data-phase="typing">Desig</span>`) {
		t.Error("typing frame not rendered")
	}
	if !strings.Contains(html, `class="reveal-up brands" data-reveal="home-brands"`) {
		t.Error("reveal sections should carry reveal-up and data-reveal")
	}
}

func TestProjectsFilters(t *testing.T) {
	c := catalog(t)
	f := listing.ProjectFilter{Industry: "Energy"}
	projects := listing.FilterProjects(c.Projects(), f)

	html := render(t, PageBody("/projects", "", ProjectsPage(c, ProjectsView{Filter: f, Projects: projects})))
	if !strings.Contains(html, "Clear filters") {
		t.Error("active filter should offer Clear filters")
	}
	if !strings.Contains(html, `data-value="Energy" aria-pressed="true"`) {
		t.Error("selected chip not marked")
	}

	html = render(t, PageBody("/projects", "", ProjectsPage(c, ProjectsView{Filter: f})))
	if !strings.Contains(html, "No projects found matching your filters.") {
		t.Error("empty state missing")
	}
	if !strings.Contains(html, "Showing 0 projects") {
		t.Error("count missing")
	}

	p := c.Projects()[0]
	html = render(t, PageBody("/projects", "", ProjectsPage(c, ProjectsView{Projects: c.Projects(), Selected: &p})))
	if !strings.Contains(html, `id="project-dialog" class="modal" open`) {
		t.Error("project dialog should render open")
	}
	if strings.Contains(html, "Clear filters") {
		t.Error("Clear filters shown with no active filter")
	}
}

func TestCareersDialogs(t *testing.T) {
	c := catalog(t)
	job, err := c.Job(11)
	if err != nil {
		t.Fatal(err)
	}

	apply := NewFormView(forms.NewApplicationForm(job.Title), "/careers/apply", "Submit Application")
	html := render(t, PageBody("/careers", "", CareersPage(c, CareersView{
		Query:    "weld",
		Jobs:     []listing.JobListing{job},
		Selected: &job,
		Apply:    &apply,
	})))

	for _, want := range []string{
		`id="job-dialog"`,
		"Apply for This Position",
		`id="apply-dialog"`,
		`name="roleOfInterest" required placeholder="e.g., Senior Process Engineer" type="text" value="Welder"`,
		"Equal Opportunity Employer",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("careers page missing %q", want)
		}
	}

	html = render(t, PageBody("/careers", "", CareersPage(c, CareersView{Query: "astronaut"})))
	if !strings.Contains(html, "No positions found matching your search.") {
		t.Error("empty state missing")
	}
}

func TestEnquiryFormErrors(t *testing.T) {
	v := NewFormView(forms.ContactForm{Name: "Jane"}, "/contact", "Send Message")
	v.Errors = map[string]string{"email": "is required"}
	html := render(t, EnquiryForm(v))

	for _, want := range []string{
		`action="/contact"`,
		`value="Jane"`,
		`aria-invalid="true"`,
		"email: is required",
		`<option value="careers">Careers &amp; Recruitment</option>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("form missing %q", want)
		}
	}
}

func TestRecruitmentFormHidesDepartment(t *testing.T) {
	v := NewFormView(forms.NewRecruitmentForm(""), "/careers/recruitment", "Send Message")
	html := render(t, EnquiryForm(v))
	if !strings.Contains(html, `<input type="hidden" name="department" value="careers">`) {
		t.Errorf("department should be a fixed hidden field")
	}
}

func TestContactPageEmbedsMap(t *testing.T) {
	c := catalog(t)
	form := NewFormView(forms.ContactForm{}, "/contact", "Send Message")
	out := render(t, ContactPage(c, form))

	if !strings.Contains(out, `<iframe src="`) {
		t.Errorf("missing map iframe:\n%s", out)
	}
	if !strings.Contains(out, `title="Office location"`) {
		t.Error("map iframe has no title")
	}
	if !strings.Contains(out, "</iframe>") {
		t.Error("map iframe not closed")
	}
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"styles.css", "js/app.js", "images/gly-logo.svg"} {
		if _, err := fs.Stat(Static(), name); err != nil {
			t.Errorf("static %s: %v", name, err)
		}
	}
}

func TestClientScriptHistoryAndSession(t *testing.T) {
	src, err := fs.ReadFile(Static(), "js/app.js")
	if err != nil {
		t.Fatalf("read app.js: %v", err)
	}
	js := string(src)
	for _, want := range []string{
		// Back and forward reuse the entry the browser already moved to.
		"history.replaceState({}, '', d.path)",
		"poppedPath = location.pathname",
		// Partial swaps name the page load's own session.
		"case 'session': sessionId = d.id",
		"headers['X-Glyweb-Session'] = sessionId",
	} {
		if !strings.Contains(js, want) {
			t.Errorf("app.js missing %q", want)
		}
	}
}
