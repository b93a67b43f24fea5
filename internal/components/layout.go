package components

import (
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/notifications"
)

// Timing tells the client script how long the overlay and transitions last.
type Timing struct {
	InitialLoad time.Duration
	Transition  time.Duration
	Reveal      time.Duration
}

type PageConfig struct {
	Path        string
	Title       string
	Description string
	// Loading renders the initial-load overlay visible.
	Loading bool
	Toasts  []notifications.Notification
	Timing  Timing
	// Static renders plain links with no live channel, as in an export.
	Static bool
}

func Layout(c *content.Store, config PageConfig, body ...g.Node) g.Node {
	company := c.Company()
	config.Title = PageTitle(c, config.Title)
	if config.Description == "" {
		config.Description = company.Summary
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(config.Title)),
				Meta(Name("description"), Content(config.Description)),

				Meta(g.Attr("property", "og:title"), Content(config.Title)),
				Meta(g.Attr("property", "og:description"), Content(config.Description)),
				Meta(g.Attr("property", "og:type"), Content("website")),

				Link(Rel("icon"), Href(company.Logo)),
				Link(Rel("stylesheet"), Href("/static/styles.css")),
			),
			Body(
				Class("site"),
				Data("path", config.Path),
				Data("initial-load-ms", millis(config.Timing.InitialLoad)),
				Data("transition-ms", millis(config.Timing.Transition)),
				Data("reveal-ms", millis(config.Timing.Reveal)),
				g.If(!config.Static, Data("live", "/ws/live")),

				LoadingOverlay(company, config.Loading),
				SiteHeader(c, config.Path),
				PageBody(config.Path, config.Title, body...),
				SiteFooter(c),
				Toasts(config.Toasts),

				Script(Src("/static/js/app.js"), g.Attr("defer")),
			),
		),
	})
}

// PageTitle is the document title for a page titled title.
func PageTitle(c *content.Store, title string) string {
	company := c.Company()
	if title == "" {
		return company.Name + " | " + company.Tagline
	}
	return title + " | " + company.Name
}

// PageBody is the swappable part of a page. The client replaces it after a
// route commits.
func PageBody(path, title string, body ...g.Node) g.Node {
	return Main(ID("page"), Data("page", path), Data("title", title), g.Group(body))
}

// LoadingOverlay is shown on first load and during route transitions.
func LoadingOverlay(company content.Company, visible bool) g.Node {
	return Div(
		ID("loading-overlay"),
		Class("loading-overlay"),
		g.If(!visible, g.Attr("hidden")),
		Aria("hidden", strconv.FormatBool(!visible)),
		Div(
			Class("loading-overlay__inner"),
			Img(Src(company.Logo), Alt(company.Name), Class("loading-overlay__logo")),
			H2(Class("loading-overlay__name"), g.Text(company.Name)),
			Div(Class("loading-overlay__bar"), Div(Class("loading-overlay__progress"))),
			P(Class("loading-overlay__label"), g.Text("Loading")),
		),
	)
}

// Toasts renders flashed notifications. The client appends live ones here.
func Toasts(list []notifications.Notification) g.Node {
	return Div(
		ID("toasts"),
		Class("toasts"),
		Aria("live", "polite"),
		g.Map(list, func(n notifications.Notification) g.Node {
			return Div(
				Class("toast toast--"+string(n.Kind)),
				Data("toast", n.ID),
				Role("status"),
				Strong(g.Text(n.Message)),
				g.If(n.Description != "", P(g.Text(n.Description))),
			)
		}),
	)
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
