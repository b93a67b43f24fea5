package components

import (
	"net/url"
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/listing"
	"github.com/glyengineering/glyweb/internal/typing"
)

// HomePage renders the landing page. hero is the typing frame to show before
// the live channel takes over.
func HomePage(c *content.Store, hero typing.Frame) g.Node {
	h := c.Hero()
	return g.Group{
		Section(
			Class("hero"),
			Div(
				Class("hero__copy section-padding"),
				H1(
					g.Text(h.Title+" "),
					Span(Class("hero__highlight"), g.Text(h.Highlight)),
				),
				P(
					Class("hero__typing"),
					Span(ID("typing-text"), Data("phase", hero.Phase.String()), g.Text(hero.Text)),
					Span(Class("hero__cursor"), Aria("hidden", "true"), g.Text("|")),
				),
				P(Class("hero__subtitle"), g.Text(h.Subtitle)),
				Div(
					Class("hero__actions"),
					A(Href("/services"), Class("btn-primary"), Data("nav", "/services"), g.Text("Our Services")),
					A(Href("/projects"), Class("btn-secondary"), Data("nav", "/projects"), g.Text("View Projects")),
				),
			),
			Div(
				Class("hero__media"),
				Img(Src(h.Image), Alt(h.Highlight)),
				Div(Class("hero__badge"), Strong(g.Text(h.BadgeValue)), Span(g.Text(h.BadgeLabel))),
			),
		),
		RevealSection("home-brands", "brands",
			P(Class("eyebrow"), g.Text("Trusted by industry leaders")),
			Div(Class("brands__track"), g.Map(c.Brands(), func(b string) g.Node {
				return Span(Class("brands__item"), g.Text(b))
			})),
		),
		RevealSection("home-stats", "stats section-padding",
			g.Map(c.Stats(), func(s content.Stat) g.Node {
				return Div(Class("stats__item"), Strong(g.Text(s.Value)), Span(g.Text(s.Label)))
			}),
		),
		RevealSection("home-capabilities", "capabilities section-padding",
			H2(g.Text("What We Do")),
			Div(Class("card-grid"), g.Map(c.Capabilities(), func(cp content.Capability) g.Node {
				return A(
					Href("/services#"+cp.Anchor),
					Class("card"),
					H3(g.Text(cp.Title)),
					P(g.Text(cp.Description)),
				)
			})),
		),
		RevealSection("home-projects", "featured section-padding",
			H2(g.Text("Featured Projects")),
			Div(Class("card-grid"), g.Map(c.FeaturedProjects(), projectCard)),
			A(Href("/projects"), Class("btn-secondary"), Data("nav", "/projects"), g.Text("All Projects")),
		),
		callToAction("home-cta"),
	}
}

func AboutPage(c *content.Store) g.Node {
	about := c.About()
	return g.Group{
		pageHero("About Us", about.Intro),
		RevealSection("about-story", "story section-padding",
			H2(g.Text("Who We Are")),
			g.Map(about.Story, func(p string) g.Node { return P(g.Text(p)) }),
		),
		RevealSection("about-offerings", "offerings section-padding",
			H2(g.Text("What We Offer")),
			Div(Class("card-grid"), g.Map(about.Offerings, blurbCard)),
		),
		RevealSection("about-stats", "stats section-padding",
			g.Map(c.Stats(), func(s content.Stat) g.Node {
				return Div(Class("stats__item"), Strong(g.Text(s.Value)), Span(g.Text(s.Label)))
			}),
		),
		RevealSection("about-values", "values section-padding",
			H2(g.Text("Our Values")),
			Div(Class("card-grid"), g.Map(about.Values, blurbCard)),
		),
		callToAction("about-cta"),
	}
}

func ServicesPage(c *content.Store) g.Node {
	lines := c.ServiceLines()
	return g.Group{
		pageHero("Our Services", "Integrated EPCM delivery, from first concept to long-term operations."),
		g.Map(lines, func(s content.ServiceLine) g.Node {
			return RevealSection(s.ID, "service-line section-padding",
				Div(
					Class("service-line__copy"),
					H2(g.Text(s.Title)),
					P(g.Text(s.Description)),
					Ul(Class("service-line__items"), g.Map(s.Items, func(item string) g.Node { return Li(g.Text(item)) })),
				),
				Img(Src(s.Image), Alt(s.Title), g.Attr("loading", "lazy")),
			)
		}),
		callToAction("services-cta"),
	}
}

// ProjectsView is the state of the Projects page.
type ProjectsView struct {
	Filter   listing.ProjectFilter
	Projects []listing.ProjectRecord
	// Selected opens the detail dialog.
	Selected *listing.ProjectRecord
}

func ProjectsPage(c *content.Store, v ProjectsView) g.Node {
	f := v.Filter.Normalized()
	return g.Group{
		pageHero("Our Projects", "A selection of the work we have delivered for clients across the USA."),
		RevealSection("projects-filters", "filters section-padding",
			filterChips("Industry", "industry", c.Industries(), f.Industry, func(val string) string {
				return projectsURL(listing.ProjectFilter{Industry: val, Service: f.Service}, 0)
			}),
			filterChips("Service", "service", c.ServiceTags(), f.Service, func(val string) string {
				return projectsURL(listing.ProjectFilter{Industry: f.Industry, Service: val}, 0)
			}),
			g.If(f.Active(), A(Href("/projects"), Class("filters__clear"), Data("filter-clear", ""), g.Text("Clear filters"))),
		),
		Section(
			ID("project-results"),
			Class("section-padding"),
			Data("results", "projects"),
			P(Class("results__count"), g.Textf("Showing %d projects", len(v.Projects))),
			g.If(len(v.Projects) == 0, P(Class("results__empty"), g.Text("No projects found matching your filters."))),
			Div(Class("card-grid"), g.Map(v.Projects, func(p listing.ProjectRecord) g.Node {
				return A(
					Href(projectsURL(f, p.ID)),
					Class("card card--project"),
					Data("project", strconv.Itoa(p.ID)),
					Img(Src(p.Image), Alt(p.Title), g.Attr("loading", "lazy")),
					Span(Class("tag"), g.Text(p.Industry)),
					H3(g.Text(p.Title)),
					P(g.Text(p.Location+" · "+p.Year)),
				)
			})),
		),
		g.Iff(v.Selected != nil, func() g.Node { return projectDialog(*v.Selected, projectsURL(f, 0)) }),
		callToAction("projects-cta"),
	}
}

func projectDialog(p listing.ProjectRecord, closeHref string) g.Node {
	return Modal("project-dialog", p.Title, closeHref, true,
		Img(Src(p.Image), Alt(p.Title)),
		P(g.Text(p.Description)),
		Dl(
			Class("facts"),
			fact("Client", p.Client),
			fact("Location", p.Location),
			fact("Year", p.Year),
			fact("Duration", p.Duration),
			fact("Value", p.Value),
			fact("Industry", p.Industry),
		),
		H4(g.Text("Services")),
		Ul(g.Map(p.Services, func(s string) g.Node { return Li(g.Text(s)) })),
		H4(g.Text("Outcomes")),
		Ul(g.Map(p.Outcomes, func(o string) g.Node { return Li(g.Text(o)) })),
	)
}

// CareersView is the state of the Careers page.
type CareersView struct {
	Query string
	Jobs  []listing.JobListing
	// Selected opens the job detail dialog.
	Selected *listing.JobListing
	// Apply opens the application dialog.
	Apply *FormView
	// Recruit opens the recruitment modal.
	Recruit *FormView
}

func CareersPage(c *content.Store, v CareersView) g.Node {
	careers := c.Careers()
	return g.Group{
		pageHero("Careers", "Build what matters with a team that delivers."),
		RevealSection("careers-purpose", "purpose section-padding",
			Div(
				H2(g.Text("Our Purpose")),
				g.Map(careers.Purpose, func(p string) g.Node { return P(g.Text(p)) }),
			),
			Img(Src(careers.Image), Alt("Our team"), g.Attr("loading", "lazy")),
		),
		Section(
			ID("open-positions"),
			Class("section-padding"),
			H2(g.Text("Open Positions")),
			Form(
				Class("search"),
				Method("get"),
				Action("/careers"),
				Role("search"),
				Input(Type("search"), Name("q"), Value(v.Query), Placeholder("Search by title, department, or location"), Data("search", "jobs")),
				Button(Type("submit"), g.Text("Search")),
			),
			Div(
				ID("job-results"),
				Data("results", "jobs"),
				g.If(len(v.Jobs) == 0, P(Class("results__empty"), g.Text("No positions found matching your search."))),
				Ul(Class("job-list"), g.Map(v.Jobs, func(j listing.JobListing) g.Node {
					return Li(
						Class("job"),
						Data("job", strconv.Itoa(j.ID)),
						A(
							Href(careersURL(v.Query, "job", strconv.Itoa(j.ID))),
							H3(g.Text(j.Title)),
							P(Class("job__meta"), g.Text(j.Department+" · "+j.Location+" · "+j.Type)),
						),
					)
				})),
			),
			Div(
				Class("careers__actions"),
				A(Href(careersURL(v.Query, "apply", "1")), Class("btn-primary"), Data("open", "apply-dialog"), g.Text("Submit General Application")),
			),
		),
		RevealSection("careers-recruitment", "recruitment section-padding",
			H2(g.Text("Don't see the right role?")),
			P(g.Text("Our recruitment team is happy to talk about future opportunities.")),
			A(Href(careersURL(v.Query, "recruit", "1")), Class("btn-secondary"), Data("open", "recruit-dialog"), g.Text("Contact our Recruitment Team")),
		),
		RevealSection("careers-eeo", "eeo section-padding",
			H2(g.Text("Equal Opportunity Employer")),
			P(g.Text(c.Company().Name+" is an equal opportunity employer. We celebrate diversity and are committed to creating an inclusive environment for all employees.")),
		),
		g.Iff(v.Selected != nil, func() g.Node { return jobDialog(*v.Selected, v.Query) }),
		g.Iff(v.Apply != nil, func() g.Node {
			return Modal("apply-dialog", "Apply", careersURL(v.Query, "", ""), true, EnquiryForm(*v.Apply))
		}),
		g.Iff(v.Recruit != nil, func() g.Node {
			return Modal("recruit-dialog", "Contact our Recruitment Team", careersURL(v.Query, "", ""), true, EnquiryForm(*v.Recruit))
		}),
	}
}

func jobDialog(j listing.JobListing, query string) g.Node {
	return Modal("job-dialog", j.Title, careersURL(query, "", ""), true,
		Dl(
			Class("facts"),
			fact("Department", j.Department),
			fact("Location", j.Location),
			fact("Type", j.Type),
		),
		P(g.Text(j.Description)),
		A(
			Href(careersURL(query, "apply", "1")+"&role="+url.QueryEscape(j.Title)),
			Class("btn-primary"),
			Data("apply-role", j.Title),
			g.Text("Apply for This Position"),
		),
	)
}

func ContactPage(c *content.Store, form FormView) g.Node {
	return g.Group{
		pageHero("Contact Us", "Tell us about your project. Our team will get back to you promptly."),
		RevealSection("contact-channels", "channels section-padding",
			g.Map(c.Channels(), func(ch content.Channel) g.Node {
				body := g.Text(ch.Content)
				if ch.Href != "" {
					body = A(Href(ch.Href), g.Text(ch.Content))
				}
				return Div(Class("card"), H3(g.Text(ch.Title)), P(body), Small(g.Text(ch.Detail)))
			}),
		),
		RevealSection("contact-form", "contact section-padding",
			H2(g.Text("Send Us a Message")),
			EnquiryForm(form),
		),
		RevealSection("contact-map", "map",
			IFrame(
				Src(c.MapEmbedURL()),
				Title("Office location"),
				g.Attr("loading", "lazy"),
				g.Attr("referrerpolicy", "no-referrer-when-downgrade"),
			),
		),
	}
}

func LegalDoc(p content.LegalPage) g.Node {
	return Article(
		Class("legal section-padding"),
		Data("legal", p.Slug),
		g.Raw(p.HTML),
	)
}

func NotFoundPage(path string) g.Node {
	return Section(
		Class("not-found section-padding"),
		H1(g.Text("Page not found")),
		P(g.Textf("Nothing lives at %s.", path)),
		A(Href("/"), Class("btn-primary"), Data("nav", "/"), g.Text("Back to Home")),
	)
}

func pageHero(title, subtitle string) g.Node {
	return Section(
		Class("page-hero section-padding"),
		H1(g.Text(title)),
		P(g.Text(subtitle)),
	)
}

func callToAction(id string) g.Node {
	return RevealSection(id, "cta section-padding",
		H2(g.Text("Ready to start your next project?")),
		P(g.Text("Talk to our team about engineering, procurement, fabrication and construction.")),
		A(Href("/contact"), Class("btn-primary"), Data("nav", "/contact"), g.Text("Get in Touch")),
	)
}

func projectCard(p listing.ProjectRecord) g.Node {
	return A(
		Href(projectsURL(listing.ProjectFilter{}, p.ID)),
		Class("card card--project"),
		Img(Src(p.Image), Alt(p.Title), g.Attr("loading", "lazy")),
		Span(Class("tag"), g.Text(p.Industry)),
		H3(g.Text(p.Title)),
		P(g.Text(p.Location)),
	)
}

func blurbCard(b content.Blurb) g.Node {
	return Div(Class("card"), H3(g.Text(b.Title)), P(g.Text(b.Description)))
}

func fact(name, value string) g.Node {
	if value == "" {
		return nil
	}
	return g.Group{Dt(g.Text(name)), Dd(g.Text(value))}
}

func filterChips(label, param string, options []string, selected string, href func(string) string) g.Node {
	return Div(
		Class("filters__group"),
		Span(Class("filters__label"), g.Text(label)),
		g.Map(options, func(o string) g.Node {
			active := o == selected
			cls := "chip"
			if active {
				cls += " is-active"
			}
			return A(
				Href(href(o)),
				Class(cls),
				Data("filter", param),
				Data("value", o),
				g.If(active, Aria("pressed", "true")),
				g.Text(o),
			)
		}),
	)
}

func projectsURL(f listing.ProjectFilter, id int) string {
	f = f.Normalized()
	q := url.Values{}
	if f.Industry != listing.All {
		q.Set("industry", f.Industry)
	}
	if f.Service != listing.All {
		q.Set("service", f.Service)
	}
	if id > 0 {
		q.Set("project", strconv.Itoa(id))
	}
	if len(q) == 0 {
		return "/projects"
	}
	return "/projects?" + q.Encode()
}

func careersURL(query, key, value string) string {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	if key != "" {
		q.Set(key, value)
	}
	if len(q) == 0 {
		return "/careers"
	}
	return "/careers?" + q.Encode()
}
